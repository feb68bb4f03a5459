package preview

import (
	"bytes"
	"fmt"
	"html/template"
	"io"

	"mell-studio/internal/manifest"

	"github.com/go-git/go-billy/v5"
)

// FileName is the preview page written next to the manifest.
const FileName = "preview.html"

type card struct {
	Name  string
	Layer string
	Srcs  []string
	Stack bool
}

type section struct {
	ID     string
	Tab    string
	Title  string
	Empty  string
	Cards  []card
	Active bool
}

type page struct {
	Title    string
	Layers   []string
	Sections []section
}

var pageTmpl = template.Must(template.New("preview").Parse(`<!doctype html>
<html lang="ko">
<head>
	<meta charset="utf-8" />
	<meta name="viewport" content="width=device-width, initial-scale=1" />
	<title>{{.Title}}</title>
	<style>
		* { box-sizing: border-box; }
		body { margin: 0; background: #fff; color: #111; font: 14px/1.45 -apple-system, 'Segoe UI', Roboto, 'Noto Sans KR', sans-serif; }
		header { position: sticky; top: 0; background: #fffffff0; padding: 12px 16px; border-bottom: 1px solid #e5e7eb; z-index: 10; }
		header h1 { margin: 0; font-size: 16px; }
		.controls { display: flex; gap: 8px; margin-top: 8px; align-items: center; flex-wrap: wrap; }
		.grid { display: grid; gap: 12px; grid-template-columns: repeat(auto-fill, minmax(240px, 1fr)); padding: 16px; }
		.card { background: #f7f7f9; border: 1px solid #e5e7eb; border-radius: 12px; overflow: hidden; }
		.thumb { background: #fff; aspect-ratio: 1 / 1; display: grid; place-items: center; position: relative; }
		.thumb img { max-width: 100%; max-height: 100%; }
		.thumb.stack img { position: absolute; inset: 0; margin: auto; width: 100%; height: 100%; object-fit: contain; }
		.meta { padding: 10px 12px; display: flex; justify-content: space-between; gap: 8px; }
		.name { white-space: nowrap; overflow: hidden; text-overflow: ellipsis; max-width: 70%; }
		.layer { color: #667085; font-variant: all-small-caps; }
		button[aria-pressed="true"] { background: #eef2ff; }
		section { display: none; }
		section[aria-hidden="false"] { display: block; }
		.empty { opacity: .7; }
	</style>
</head>
<body>
	<header>
		<h1>{{.Title}}</h1>
		<div class="controls">
			{{range .Sections}}<button class="tab" data-target="{{.ID}}" aria-pressed="{{.Active}}">{{.Tab}}</button>
			{{end}}
			<select id="layerFilter">
				<option value="">All</option>
				{{range .Layers}}<option value="{{.}}">{{.}}</option>
				{{end}}
			</select>
			<input id="search" type="search" placeholder="search" />
		</div>
	</header>
	{{range .Sections}}
	<section id="{{.ID}}" aria-hidden="{{if .Active}}false{{else}}true{{end}}">
		<main class="grid">
		{{range .Cards}}
			<div class="card" data-layer="{{.Layer}}">
				<div class="thumb{{if .Stack}} stack{{end}}">{{range .Srcs}}<img src="{{.}}" alt="" loading="lazy" />{{end}}</div>
				<div class="meta"><div class="name">{{.Name}}</div><div class="layer">{{.Layer}}</div></div>
			</div>
		{{else}}
			<div class="empty">{{.Empty}}</div>
		{{end}}
		</main>
	</section>
	{{end}}
	<script>
	const tabs = document.querySelectorAll('.tab');
	tabs.forEach(btn => btn.addEventListener('click', () => {
		tabs.forEach(b => {
			const on = b === btn;
			b.setAttribute('aria-pressed', String(on));
			document.getElementById(b.dataset.target).setAttribute('aria-hidden', String(!on));
		});
	}));
	const layerFilter = document.getElementById('layerFilter');
	const search = document.getElementById('search');
	function applyFilters() {
		const layer = layerFilter.value;
		const q = search.value.toLowerCase();
		document.querySelectorAll('.card').forEach(card => {
			const name = (card.querySelector('.name') || {}).textContent || '';
			const okLayer = !layer || card.dataset.layer === layer;
			const okText = !q || name.toLowerCase().includes(q);
			card.style.display = okLayer && okText ? '' : 'none';
		});
	}
	layerFilter.addEventListener('change', applyFilters);
	search.addEventListener('input', applyFilters);
	</script>
</body>
</html>
`))

func srcs(files []string) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = manifest.EscapePath(f)
	}
	return out
}

func assembledCards(list []Assembly, layer, prefix string) []card {
	cards := make([]card, len(list))
	for i, a := range list {
		cards[i] = card{Name: prefix + a.Group, Layer: layer, Srcs: srcs(a.Files), Stack: true}
	}
	return cards
}

func build(m *manifest.Manifest) page {
	all := make([]card, len(m.Parts))
	seen := make(map[string]bool)
	var layers []string
	for i, p := range m.Parts {
		all[i] = card{Name: p.Name, Layer: string(p.LayerType), Srcs: srcs([]string{p.FilePath})}
		if !seen[string(p.LayerType)] {
			seen[string(p.LayerType)] = true
			layers = append(layers, string(p.LayerType))
		}
	}
	layers = append(layers, "hair_face", "same_folder", "full")

	return page{
		Title:  "MELL Parts Preview",
		Layers: layers,
		Sections: []section{
			{ID: "secAll", Tab: "모든 파츠", Cards: all, Active: true, Empty: "PNG 파츠가 없습니다."},
			{ID: "secAsm", Tab: "조립(옷)", Cards: assembledCards(ClothesAssemblies(m), "clothes", "옷 / "), Empty: "조립 가능한 옷 파츠 묶음을 찾지 못했습니다."},
			{ID: "secHairAsm", Tab: "조립(머리+얼굴)", Cards: assembledCards(HairAssemblies(m), "hair_face", "머리 + 얼굴 / "), Empty: "머리 또는 얼굴 베이스가 부족합니다."},
			{ID: "secSame", Tab: "조립(같은 폴더)", Cards: assembledCards(SameFolderAssemblies(m), "same_folder", ""), Empty: "같은 폴더에 2개 이상 PNG가 있는 세트를 찾지 못했습니다."},
			{ID: "secFull", Tab: "조립(전체)", Cards: assembledCards(CombinedAssemblies(m), "full", "전체 / "), Empty: "결합 가능한 조합이 없습니다."},
		},
	}
}

// Render writes the preview page for m.
func Render(w io.Writer, m *manifest.Manifest) error {
	return pageTmpl.Execute(w, build(m))
}

// WriteFS renders the page fully in memory, then writes it into fs.
func WriteFS(fs billy.Basic, path string, m *manifest.Manifest) error {
	var buf bytes.Buffer
	if err := Render(&buf, m); err != nil {
		return fmt.Errorf("preview: render: %w", err)
	}
	f, err := fs.Create(path)
	if err != nil {
		return fmt.Errorf("preview: create %s: %w", path, err)
	}
	if _, err := f.Write(buf.Bytes()); err != nil {
		f.Close()
		return fmt.Errorf("preview: write %s: %w", path, err)
	}
	return f.Close()
}
