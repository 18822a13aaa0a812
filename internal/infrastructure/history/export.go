package history

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/XCodeIsGoldX/ollamaland/internal/ports"
)

// Export writes every record of repo to dest as jsonl, newest first.
func Export(repo ports.HistoryRepository, dest string) error {
	records, err := repo.Records(0, "")
	if err != nil {
		return err
	}
	file, err := os.Create(dest)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(file)
	enc := json.NewEncoder(w)
	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			file.Close()
			return fmt.Errorf("encode record %s: %w", rec.ID, err)
		}
	}
	if err := w.Flush(); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
