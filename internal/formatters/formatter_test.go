// SPDX-License-Identifier: Apache-2.0

package formatters_test

import (
	"strings"
	"testing"

	"ecg-scrub/internal/batch"
	"ecg-scrub/internal/formatters"

	_ "ecg-scrub/internal/formatters/json"
	_ "ecg-scrub/internal/formatters/text"
)

func TestDefaultRegistry_HasTextAndJSON(t *testing.T) {
	for _, name := range []string{"text", "json"} {
		if _, ok := formatters.Get(name); !ok {
			t.Errorf("expected %q formatter to be registered", name)
		}
	}
}

func TestExport_UnknownFormat(t *testing.T) {
	_, err := formatters.Export("xml", &batch.Summary{}, formatters.FormatterOptions{})
	if err == nil {
		t.Fatal("expected error for unknown format")
	}
	if !strings.Contains(err.Error(), "Available formats") {
		t.Errorf("error should list available formats, got: %v", err)
	}
}

func TestExport_Text(t *testing.T) {
	summary := &batch.Summary{
		InputDir:  "in",
		OutputDir: "out",
		Total:     2,
		Processed: 1,
		Failed:    1,
	}

	out, err := formatters.Export("text", summary, formatters.FormatterOptions{NoColor: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Total:     2") {
		t.Errorf("missing total in output:\n%s", out)
	}
}
