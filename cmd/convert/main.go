// Command convert turns delimited text into a heap file:
//
//	convert -schema int,string -in users.txt -out users.dat
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/tuannm99/simpledb/internal"
	"github.com/tuannm99/simpledb/internal/alias/util"
	"github.com/tuannm99/simpledb/internal/heap"
	"github.com/tuannm99/simpledb/internal/record"
	"github.com/tuannm99/simpledb/internal/storage"
)

func parseSchema(list string) (record.Schema, error) {
	var types []record.ColumnType
	for tok := range strings.SplitSeq(list, ",") {
		t, err := record.ParseColumnType(tok)
		if err != nil {
			return record.Schema{}, err
		}
		types = append(types, t)
	}
	return record.NewSchema(types, nil)
}

func run(schemaSpec, in, out, sep string, pageSize int) error {
	schema, err := parseSchema(schemaSpec)
	if err != nil {
		return err
	}
	r, n := utf8.DecodeRuneInString(sep)
	if n == 0 || n != len(sep) {
		return fmt.Errorf("separator must be one character, got %q", sep)
	}

	src, err := os.Open(in)
	if err != nil {
		return err
	}
	defer util.CloseFunc(src)

	rows, err := heap.ReadRows(bufio.NewReader(src), schema, r)
	if err != nil {
		return fmt.Errorf("%s: %w", in, err)
	}

	dst, err := os.OpenFile(out, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, storage.FileMode0644)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(dst)
	pages, err := heap.Encode(w, schema, pageSize, rows)
	if err == nil {
		err = w.Flush()
	}
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("%s: %w", out, err)
	}

	slog.Info("convert: wrote heap file", "out", out, "rows", len(rows), "pages", pages, "schema", schema.String())
	return nil
}

func main() {
	var (
		cfgPath  = flag.String("config", "", "config file (yaml); supplies the page size")
		schema   = flag.String("schema", "", "comma separated field types, e.g. int,string")
		in       = flag.String("in", "", "input text file")
		out      = flag.String("out", "", "output heap file")
		sep      = flag.String("sep", ",", "field separator")
		pageSize = flag.Int("page-size", 0, "page size in bytes, overrides storage.page_size")
	)
	flag.Parse()

	cfg, err := internal.LoadConfig(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	slog.SetDefault(cfg.NewLogger(os.Stderr))

	if *schema == "" || *in == "" || *out == "" {
		flag.Usage()
		os.Exit(2)
	}
	if *pageSize <= 0 {
		*pageSize = cfg.Storage.PageSize
	}

	if err := run(*schema, *in, *out, *sep, *pageSize); err != nil {
		fmt.Fprintf(os.Stderr, "convert: %v\n", err)
		os.Exit(1)
	}
}
