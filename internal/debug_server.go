package internal

import (
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

const inspectTemplate = `<!DOCTYPE html>
<html>
<head>
<title>Store Inspector</title>
<style>
body { font-family: monospace; background: #111; color: #ddd; padding: 1em; }
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #444; padding: 4px 8px; text-align: left; }
th { background: #222; }
h2 { color: #6c6; }
</style>
</head>
<body>
<h2>Prefix: {{.Prefix}}</h2>
{{if .Stats}}<p>{{range $k, $v := .Stats}}{{$k}}={{$v}} {{end}}</p>{{end}}
<table>
<tr><th>Key</th><th>Kind</th><th>Entity ID</th><th>Detail</th></tr>
{{range .Items}}
<tr><td>{{.Key}}</td><td>{{.Kind}}</td><td>{{.EntityID}}</td><td>{{.Detail}}</td></tr>
{{end}}
</table>
</body>
</html>`

type InspectRow struct {
	Key      string
	Kind     string
	EntityID string
	Detail   string
}

type RowMapper func(key string, val []byte) InspectRow
type StatsProvider func() map[string]any

type PageData struct {
	Prefix string
	Items  []InspectRow
	Stats  map[string]any
}

// StartDebugServer exposes a read-only HTML view over the key space on a
// separate port. Intended for local debugging only, never production.
func StartDebugServer(db *badger.DB, port int, mapper RowMapper, statsProvider StatsProvider) {
	mux := http.NewServeMux()
	tmpl := template.Must(template.New("inspect").Parse(inspectTemplate))

	if mapper == nil {
		mapper = DefaultMapper
	}

	mux.HandleFunc("/inspect", func(w http.ResponseWriter, r *http.Request) {
		prefix := r.URL.Query().Get("prefix")
		if prefix == "" {
			prefix = "user:"
		}

		data := PageData{
			Prefix: prefix,
			Stats:  make(map[string]any),
		}
		if statsProvider != nil {
			data.Stats = statsProvider()
		}

		_ = db.View(func(txn *badger.Txn) error {
			it := txn.NewIterator(badger.DefaultIteratorOptions)
			defer it.Close()
			for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
				item := it.Item()
				_ = item.Value(func(val []byte) error {
					data.Items = append(data.Items, mapper(string(item.Key()), val))
					return nil
				})
			}
			return nil
		})

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = tmpl.Execute(w, data)
	})

	go func() {
		_ = http.ListenAndServe(fmt.Sprintf("localhost:%d", port), mux)
	}()
}

// DefaultMapper understands the key layout of the store: user records and
// their email and name indexes, teams, memberships, channels, and dm links.
func DefaultMapper(key string, val []byte) InspectRow {
	parts := strings.Split(key, ":")
	row := InspectRow{
		Key:    key,
		Kind:   "RAW",
		Detail: fmt.Sprintf("Size: %d bytes", len(val)),
	}
	if len(parts) < 2 {
		return row
	}

	row.Kind = strings.ToUpper(parts[0])
	switch parts[0] {
	case "user":
		// user:id:{uuid}, user:email:{email}, user:name:{username}
		if len(parts) >= 3 {
			row.Kind = "USER/" + strings.ToUpper(parts[1])
			row.EntityID = shorten(parts[2])
		}
	case "team", "channel", "member", "memberof", "dm":
		row.EntityID = shorten(parts[1])
		if len(parts) > 2 {
			row.Detail = strings.Join(parts[2:], ":")
		}
	}
	return row
}

func shorten(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
