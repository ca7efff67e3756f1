//go:build js && wasm

package main

import (
	"archive/zip"
	"bytes"
	"fmt"
	"sort"
	"syscall/js"
	"time"

	"github.com/lucasjlepore/step-analyzer/pipeline"
)

func main() {
	js.Global().Set("analyzeSteps", js.FuncOf(analyzeSteps))
	select {}
}

// analyzeSteps(fileBytes Uint8Array, options object) runs the CSV pipeline and
// returns {ok, run_id, notes, zip, files, warnings} or {ok: false, error}.
func analyzeSteps(_ js.Value, args []js.Value) any {
	if len(args) == 0 {
		return failure("expected arguments: fileBytes(Uint8Array), options(object)")
	}
	input := args[0]
	if input.IsUndefined() || input.IsNull() || input.Get("length").Int() == 0 {
		return failure("step data bytes are required")
	}
	data := make([]byte, input.Get("length").Int())
	js.CopyBytesToGo(data, input)

	opts := js.Undefined()
	if len(args) > 1 {
		opts = args[1]
	}
	result, err := pipeline.RunBytes(bytesOptions(opts, data))
	if err != nil {
		return failure(err.Error())
	}

	bundle, names, err := bundleArtifacts(result.Files)
	if err != nil {
		return failure(fmt.Sprintf("bundle artifacts: %v", err))
	}
	payload := js.Global().Get("Uint8Array").New(len(bundle))
	js.CopyBytesToJS(payload, bundle)

	return map[string]any{
		"ok":       true,
		"run_id":   result.RunID,
		"notes":    result.Analysis.Notes,
		"zip":      payload,
		"files":    jsStrings(names),
		"warnings": jsStrings(result.Warnings),
	}
}

func failure(msg string) map[string]any {
	return map[string]any{"ok": false, "error": msg}
}

// bytesOptions maps the JS options object onto pipeline options. Output is
// always CSV: Parquet is not available in the browser build.
func bytesOptions(v js.Value, data []byte) pipeline.BytesOptions {
	opts := pipeline.BytesOptions{
		SourceFileName: "activity.csv",
		Data:           data,
		Format:         "csv",
		TimeZone:       "UTC",
	}
	if s, ok := option(v, "source_file_name", js.TypeString); ok && s.String() != "" {
		opts.SourceFileName = s.String()
	}
	if s, ok := option(v, "timezone", js.TypeString); ok && s.String() != "" {
		opts.TimeZone = s.String()
	}
	if n, ok := option(v, "top_intervals", js.TypeNumber); ok {
		opts.TopIntervals = n.Int()
	}
	if n, ok := option(v, "histogram_bin_width", js.TypeNumber); ok {
		opts.HistogramBinWidth = n.Float()
	}
	if b, ok := option(v, "skip_grid_check", js.TypeBoolean); ok {
		opts.SkipGridCheck = b.Bool()
	}
	if tokens, ok := option(v, "missing_tokens", js.TypeObject); ok {
		for i := 0; i < tokens.Length(); i++ {
			if tok := tokens.Index(i); tok.Type() == js.TypeString {
				opts.MissingTokens = append(opts.MissingTokens, tok.String())
			}
		}
	} else if s, ok := option(v, "missing_tokens", js.TypeString); ok {
		opts.MissingTokens = pipeline.ParseMissingTokens(s.String())
	}
	return opts
}

// option returns v[key] when v is an object and the value has type want.
func option(v js.Value, key string, want js.Type) (js.Value, bool) {
	if v.Type() != js.TypeObject {
		return js.Value{}, false
	}
	out := v.Get(key)
	if out.Type() != want {
		return js.Value{}, false
	}
	return out, true
}

// bundleArtifacts zips the files in name order with a fixed modification time
// so identical runs produce identical archives.
func bundleArtifacts(files map[string][]byte) ([]byte, []string, error) {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	epoch := time.Unix(0, 0).UTC()
	for _, name := range names {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate, Modified: epoch})
		if err != nil {
			return nil, nil, err
		}
		if _, err := w.Write(files[name]); err != nil {
			return nil, nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, nil, err
	}
	return buf.Bytes(), names, nil
}

func jsStrings(values []string) []any {
	out := make([]any, 0, len(values))
	for _, v := range values {
		out = append(out, v)
	}
	return out
}
