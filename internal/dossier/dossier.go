// Package dossier печатает отчёт по заявке для администратора.
package dossier

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/superfix/superfix-backend/internal/domain/entity"
	"github.com/superfix/superfix-backend/internal/models"
)

// bucharest - отчёт показывает время по Румынии независимо от сервера.
var bucharest = func() *time.Location {
	loc, err := time.LoadLocation("Europe/Bucharest")
	if err != nil {
		return time.UTC
	}
	return loc
}()

type view struct {
	ShortID     string
	Date        string
	ClientName  string
	ClientPhone string
	HeroAlias   string
	Status      string
	PhotoBefore string
	PhotoAfter  string
}

var page = template.Must(template.New("dossier").Parse(`<!DOCTYPE html>
<html lang="ro">
<head>
<meta charset="utf-8">
<title>Dosar #{{.ShortID}}</title>
<style>
body { font-family: Arial, sans-serif; padding: 30px; color: #111; }
.header { border: 4px solid #000; padding: 20px; position: relative; }
.logo { font-size: 40px; font-weight: 900; letter-spacing: 2px; }
.header-right { position: absolute; top: 20px; right: 20px; text-align: right; font-weight: 700; }
.motivational { margin: 20px 0; padding: 12px; background: #facc15; border: 3px solid #000; text-align: center; font-weight: 700; }
table { width: 100%; border-collapse: collapse; margin-bottom: 20px; }
th, td { border: 2px solid #000; padding: 10px; text-align: left; }
th { background: #000; color: #fff; }
.grid { display: grid; grid-template-columns: 1fr 1fr; gap: 20px; }
.box { border: 3px solid #000; padding: 10px; }
.img-wrap { min-height: 300px; display: flex; align-items: center; justify-content: center; background: #f3f4f6; }
.img-wrap img { max-width: 100%; max-height: 400px; }
.badge { font-weight: 700; margin-bottom: 8px; }
.footer { display: flex; justify-content: space-between; margin-top: 30px; font-size: 12px; }
@media print { @page { size: A4; margin: 15mm; } body { padding: 0; } }
</style>
</head>
<body>
<div class="header">
  <div class="logo">SUPERFIX</div>
  <div>Raport Oficial Intervenție</div>
  <div class="header-right">
    <div>ID: #{{.ShortID}}</div>
    <div>{{.Date}}</div>
  </div>
</div>
<div class="motivational">MISIUNE COMPLETATĂ CU SUCCES</div>
<table>
  <thead><tr><th>Client</th><th>Telefon</th><th>Erou</th><th>Status</th></tr></thead>
  <tbody><tr>
    <td>{{.ClientName}}</td>
    <td>{{.ClientPhone}}</td>
    <td>{{.HeroAlias}}</td>
    <td><strong>{{.Status}}</strong></td>
  </tr></tbody>
</table>
<div class="grid">
  <div class="box">
    <div class="badge">ÎNAINTE</div>
    <div class="img-wrap">{{if .PhotoBefore}}<img src="{{.PhotoBefore}}" alt="Înainte">{{else}}<div>LIPSĂ</div>{{end}}</div>
  </div>
  <div class="box">
    <div class="badge">DUPĂ</div>
    <div class="img-wrap">{{if .PhotoAfter}}<img src="{{.PhotoAfter}}" alt="După">{{else}}<div>LIPSĂ</div>{{end}}</div>
  </div>
</div>
<div class="footer">
  <div>Certificat emis de SuperFix HQ<br>Validat de Administrator</div>
  <div>Portal Admin<br>Confidențial</div>
</div>
<script>
window.onload = function() { setTimeout(function() { window.print(); }, 500); };
</script>
</body>
</html>
`))

// ShortID - первые 8 символов идентификатора.
func ShortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

// FormatDateTime форматирует дату как ro-RO: 16.10.2026 14:05.
func FormatDateTime(t time.Time) string {
	return t.In(bucharest).Format("02.01.2006 15:04")
}

// Render строит HTML отчёта. Все значения экранируются шаблоном.
// hero может быть nil, тогда вместо псевдонима выводится N/A.
func Render(m *entity.Mission, hero *models.Hero) ([]byte, error) {
	if m == nil {
		return nil, fmt.Errorf("dossier: заявка не передана")
	}

	v := view{
		ShortID:     ShortID(m.ID.String()),
		Date:        FormatDateTime(m.CreatedAt),
		ClientName:  m.ClientName,
		ClientPhone: m.ClientPhone,
		HeroAlias:   "N/A",
		Status:      string(m.Status),
	}
	if hero != nil && hero.Alias != "" {
		v.HeroAlias = hero.Alias
	}
	if m.PhotoBefore != nil {
		v.PhotoBefore = *m.PhotoBefore
	}
	if m.PhotoAfter != nil {
		v.PhotoAfter = *m.PhotoAfter
	}

	var buf bytes.Buffer
	if err := page.Execute(&buf, v); err != nil {
		return nil, fmt.Errorf("dossier: %w", err)
	}
	return buf.Bytes(), nil
}
