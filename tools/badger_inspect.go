package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/olekukonko/tablewriter"
)

func main() {
	dbPath := flag.String("db", "./data/badger", "Path to badger DB")
	// Par défaut on liste les comptes, le reste s'explore via -prefix
	prefix := flag.String("prefix", "user:id:", "Prefix to scan (user:id:, team:, member:, channel:, dm:)")
	flag.Parse()

	db, err := openDB(*dbPath)
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Key", "Kind", "Entity ID", "Fields"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte(*prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()
			rawKey := string(item.Key())

			err := item.Value(func(v []byte) error {
				table.Append([]string{
					rawKey,
					kindOf(rawKey),
					entityID(rawKey),
					summarize(v),
				})
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		log.Fatal(err)
	}

	table.Render()
}

func kindOf(key string) string {
	parts := strings.SplitN(key, ":", 3)
	kind := strings.ToUpper(parts[0])
	if parts[0] == "user" && len(parts) >= 2 {
		kind += "/" + strings.ToUpper(parts[1])
	}
	return kind
}

// entityID retourne les 8 premiers caractères du dernier segment pour la lisibilité
func entityID(key string) string {
	parts := strings.Split(key, ":")
	id := parts[len(parts)-1]
	if len(id) > 8 {
		id = id[:8]
	}
	return id
}

// summarize décode un enregistrement JSON et liste ses champs triés.
// Les valeurs non JSON (index secondaires) sont affichées brutes.
func summarize(val []byte) string {
	var record map[string]interface{}
	if err := json.Unmarshal(val, &record); err != nil {
		raw := string(val)
		if len(raw) > 40 {
			raw = raw[:40] + "..."
		}
		return raw
	}

	keys := make([]string, 0, len(record))
	for k := range record {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		if k == "password_hash" {
			fmt.Fprintf(&b, "%s=<redacted> ", k)
			continue
		}
		fmt.Fprintf(&b, "%s=%v ", k, record[k])
	}
	return strings.TrimSpace(b.String())
}

func openDB(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).
		WithReadOnly(true).
		WithLogger(nil).
		WithBypassLockGuard(true).
		WithValueLogFileSize(10 * 1024 * 1024)

	db, err := badger.Open(opts)
	if err != nil {
		// Si corruption détectée, essaie un open en write pour truncate
		if strings.Contains(err.Error(), "Log truncate required") {
			repairOpts := badger.DefaultOptions(path).
				WithLogger(nil).WithBypassLockGuard(true)

			db, err = badger.Open(repairOpts)
			if err != nil {
				return nil, fmt.Errorf("repair failed: %w", err)
			}

			// Ferme et réouvre en read-only
			db.Close()
			return badger.Open(opts)
		}
		return nil, err
	}
	return db, nil
}
