package parquetio

import (
	"fmt"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"
	local "github.com/xitongsys/parquet-go-source/local"
	pw "github.com/xitongsys/parquet-go/writer"

	"github.com/argentumzz/movie/pkg/frame"
)

func schemaJSON(s frame.Schema) (string, error) {
	type field struct {
		Tag string `json:"Tag"`
	}
	type schema struct {
		Tag    string  `json:"Tag"`
		Fields []field `json:"Fields"`
	}
	sc := schema{Tag: "name=schema, repetitiontype=REQUIRED"}
	for _, cs := range s.Columns {
		tag := "name=" + cs.Name + ", repetitiontype=OPTIONAL, type="
		switch cs.Type {
		case frame.KindFloat:
			tag += "DOUBLE"
		case frame.KindInt:
			tag += "INT64"
		case frame.KindBool:
			tag += "BOOLEAN"
		default:
			// strings, dates and JSON-encoded lists
			tag += "BYTE_ARRAY, convertedtype=UTF8"
		}
		sc.Fields = append(sc.Fields, field{Tag: tag})
	}
	b, err := json.Marshal(sc)
	return string(b), err
}

// WriteAll writes a Frame to a Parquet file. Times are stored as date text and
// list cells as their JSON array text.
func WriteAll(path string, f *frame.Frame) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	sc, err := schemaJSON(f.Schema())
	if err != nil {
		return err
	}
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return err
	}
	w, err := pw.NewJSONWriter(sc, fw, 4)
	if err != nil {
		_ = fw.Close()
		return fmt.Errorf("parquet writer init: %w", err)
	}
	cols := f.Columns()
	for r := 0; r < f.Rows(); r++ {
		rec := make(map[string]any, len(cols))
		for _, c := range cols {
			if c.IsNull(r) {
				continue
			}
			switch c.Kind() {
			case frame.KindTime:
				rec[c.Name()] = frame.Text(c, r)
			case frame.KindList:
				b, err := json.Marshal(c.Value(r))
				if err != nil {
					_ = fw.Close()
					return err
				}
				rec[c.Name()] = string(b)
			default:
				rec[c.Name()] = c.Value(r)
			}
		}
		line, err := json.Marshal(rec)
		if err != nil {
			_ = fw.Close()
			return err
		}
		if err := w.Write(string(line)); err != nil {
			_ = fw.Close()
			return fmt.Errorf("parquet write row %d: %w", r+1, err)
		}
	}
	if err := w.WriteStop(); err != nil {
		_ = fw.Close()
		return fmt.Errorf("parquet write stop: %w", err)
	}
	return fw.Close()
}
