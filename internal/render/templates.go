package render

const tmplBase = `
{{define "base"}}<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width,initial-scale=1">
<title>Traffic accidents in NYC</title>
<style>
*{box-sizing:border-box;margin:0;padding:0}
body{font-family:sans-serif;background:#fafafa;color:#262730;font-size:14px;line-height:1.5}
a{color:#1f6feb;text-decoration:none}
a:hover{text-decoration:underline}
main{max-width:980px;margin:0 auto;padding:24px 16px}
h1{font-size:28px;font-weight:700;margin-bottom:4px}
h2{font-size:20px;font-weight:600;margin:28px 0 8px}
h3{font-size:16px;font-weight:600;margin:16px 0 8px}
.dim{color:#808495}
.filters{display:flex;gap:12px;flex-wrap:wrap;align-items:center;margin:16px 0;background:#fff;padding:10px 14px;border-radius:6px;border:1px solid #e6e9ef}
.filters label{font-size:12px;color:#808495}
.filters select,.filters input{border:1px solid #e6e9ef;border-radius:4px;padding:3px 6px;font-size:13px}
.filters button{background:#ff4b4b;border:none;color:#fff;padding:4px 14px;border-radius:4px;cursor:pointer}
.cards{display:flex;gap:12px;flex-wrap:wrap;margin:8px 0}
.card{background:#fff;border:1px solid #e6e9ef;border-radius:6px;padding:10px 14px;min-width:120px}
.card .val{font-size:20px;font-weight:700}
.card .lbl{font-size:11px;color:#808495}
table{width:100%;border-collapse:collapse;font-size:12px;background:#fff}
th{text-align:left;padding:6px 10px;border-bottom:1px solid #e6e9ef;color:#808495;font-weight:600}
td{padding:5px 10px;border-bottom:1px solid #f0f2f6}
.raw{overflow-x:auto;max-height:420px}
footer{margin-top:32px;font-size:12px;color:#808495}
</style>
</head>
<body>
<main>
<h1>Traffic accidents in NYC</h1>
<h2>Stay Safe!</h2>
<p class="dim">Collision records reported by the NYPD.</p>
{{template "content" .}}
<footer>{{.Artifacts.DatasetRows}} collisions loaded {{fmtTime .Artifacts.LoadedAt}}; {{.Artifacts.Dropped}} rows without coordinates dropped.</footer>
</main>
</body>
</html>{{end}}
`

const tmplDashboard = `
{{define "content"}}
{{$s := .Artifacts.State}}
<form class="filters" method="get" action="/">
  <label>Number of persons injured in vehicle collisions
    <input type="range" name="injured" min="{{.MinInjured}}" max="{{.MaxInjured}}" value="{{$s.Injured}}"> {{$s.Injured}}</label>
  <label>Hour to look at
    <select name="hour">{{range .Hours}}<option value="{{.}}"{{if eq . $s.Hour}} selected{{end}}>{{.}}</option>{{end}}</select></label>
  <label>Affected type of people
    <select name="category">{{range .Categories}}<option value="{{.}}"{{if eq . $s.Category}} selected{{end}}>{{.}}</option>{{end}}</select></label>
  <label><input type="checkbox" name="raw" value="true"{{if $s.ShowRaw}} checked{{end}}> Click here to view sample raw data</label>
  <button type="submit">Apply</button>
</form>

{{with .Artifacts.Raw}}
<h3>Sample raw data</h3>
<div class="raw"><table>
<tr>{{range .Columns}}<th>{{.}}</th>{{end}}</tr>
{{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>{{end}}
</table></div>
{{end}}

<h2>Where are the most people injured in NYC?</h2>
<p class="dim">{{len .Artifacts.Points}} collisions with at least {{$s.Injured}} persons injured.
  <a href="/api/points?injured={{$s.Injured}}">GeoJSON</a></p>
<img src="/api/points.svg?injured={{$s.Injured}}" alt="collision map" width="640" height="640">

<h2>How many collisions occur during a given time of a day?</h2>
<p>Vehicle collisions between {{.Artifacts.Density.HourLabel}}</p>
<div class="cards">
  <div class="card"><div class="val">{{.Artifacts.Density.Crashes}}</div><div class="lbl">collisions</div></div>
  <div class="card"><div class="val">{{len .Artifacts.Density.Bins}}</div><div class="lbl">hexagons</div></div>
  <div class="card"><div class="val">{{fmtCoord .Artifacts.Density.Midpoint.Lat}}, {{fmtCoord .Artifacts.Density.Midpoint.Lon}}</div><div class="lbl">{{if .Artifacts.Density.HasMidpoint}}midpoint{{else}}no collisions, centered on NYC{{end}}</div></div>
  {{with .Artifacts.Density.Place}}<div class="card"><div class="val">{{placeName .}}</div><div class="lbl">near</div></div>{{end}}
</div>
<p class="dim"><a href="/api/hexagons?hour={{$s.Hour}}">Hexagon layer</a></p>
{{if .DensestBins}}
<table>
<tr><th>hexagon center</th><th>collisions</th><th>elevation</th></tr>
{{range .DensestBins}}<tr><td>{{fmtCoord .Center.Lat}}, {{fmtCoord .Center.Lon}}</td><td>{{.Count}}</td><td>{{printf "%.0f" .Elevation}}</td></tr>{{end}}
</table>
{{end}}

<h3>Breakdown by minute between {{.Artifacts.Density.HourLabel}}</h3>
<img src="/api/minutes.svg?hour={{$s.Hour}}" alt="crashes per minute" height="400">
<p class="dim"><a href="/api/minutes?hour={{$s.Hour}}">JSON</a></p>

<h2>Top 10 dangerous streets by affected type</h2>
<table>
<tr><th>on_street_name</th><th>{{$s.Category.Column}}</th></tr>
{{range .Artifacts.TopStreets}}<tr><td>{{.Street}}</td><td>{{.Injured}}</td></tr>{{else}}<tr><td colspan="2" class="dim">no injured {{lower $s.Category}}</td></tr>{{end}}
</table>
{{end}}
`
