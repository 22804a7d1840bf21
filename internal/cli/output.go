package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

// Formatter renders a command result.
type Formatter interface {
	Format(data any) (string, error)
}

// NewFormatter returns the formatter for "text", "json" or "yaml".
func NewFormatter(format string) (Formatter, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "text":
		return textFormatter{}, nil
	case "json":
		return jsonFormatter{}, nil
	case "yaml":
		return yamlFormatter{}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want text, json or yaml)", format)
	}
}

type textFormatter struct{}

func (textFormatter) Format(data any) (string, error) {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)
	writeText(w, reflect.ValueOf(data))
	if err := w.Flush(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func writeText(w *tabwriter.Writer, v reflect.Value) {
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Slice:
		if v.Len() == 0 {
			fmt.Fprintln(w, "none")
			return
		}
		if v.Type().Elem().Kind() != reflect.Struct {
			for i := 0; i < v.Len(); i++ {
				fmt.Fprintln(w, v.Index(i).Interface())
			}
			return
		}
		t := v.Type().Elem()
		headers := make([]string, t.NumField())
		for i := 0; i < t.NumField(); i++ {
			headers[i] = strings.ToUpper(t.Field(i).Name)
		}
		fmt.Fprintln(w, strings.Join(headers, "\t"))
		for i := 0; i < v.Len(); i++ {
			row := v.Index(i)
			vals := make([]string, row.NumField())
			for j := 0; j < row.NumField(); j++ {
				vals[j] = fmt.Sprintf("%v", row.Field(j).Interface())
			}
			fmt.Fprintln(w, strings.Join(vals, "\t"))
		}
	case reflect.Struct:
		t := v.Type()
		var tables []int
		for i := 0; i < t.NumField(); i++ {
			field := v.Field(i)
			if field.Kind() == reflect.Slice && field.Type().Elem().Kind() == reflect.Struct {
				tables = append(tables, i)
				continue
			}
			fmt.Fprintf(w, "%s:\t%v\n", t.Field(i).Name, field.Interface())
		}
		// Nested rows render as a table after the scalar lines.
		for _, i := range tables {
			fmt.Fprintf(w, "\n%s:\n", t.Field(i).Name)
			writeText(w, v.Field(i))
		}
	default:
		fmt.Fprintln(w, v.Interface())
	}
}

type jsonFormatter struct{}

func (jsonFormatter) Format(data any) (string, error) {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("format json: %w", err)
	}
	return string(b) + "\n", nil
}

type yamlFormatter struct{}

func (yamlFormatter) Format(data any) (string, error) {
	b, err := yaml.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("format yaml: %w", err)
	}
	return string(b), nil
}
