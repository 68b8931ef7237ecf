// SPDX-License-Identifier: Apache-2.0

package redact

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ecg-scrub/internal/pdftext"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractPatientInfo_MaleWithAge(t *testing.T) {
	info := ExtractPatientInfo("Paciente: PEREZ JUAN Masculino (45 años) ID 1234")
	assert.Equal(t, GenderMale, info.Gender)
	assert.Equal(t, "(45 años)", info.Age)
	assert.Equal(t, "Masculino (45 años)", info.Label())
}

func TestExtractPatientInfo_FemaleOnly(t *testing.T) {
	info := ExtractPatientInfo("Femenino sin edad registrada")
	assert.Equal(t, GenderFemale, info.Gender)
	assert.Empty(t, info.Age)
	assert.Equal(t, "Femenino", info.Label())
}

func TestExtractPatientInfo_AgeOnly(t *testing.T) {
	info := ExtractPatientInfo("(82 años)")
	assert.Empty(t, info.Gender)
	assert.Equal(t, "(82 años)", info.Age)
	assert.False(t, info.Empty())
}

func TestExtractPatientInfo_FirstAgeMatchWins(t *testing.T) {
	info := ExtractPatientInfo("(45 años) luego (50 años)")
	assert.Equal(t, "(45 años)", info.Age)
}

func TestExtractPatientInfo_Empty(t *testing.T) {
	info := ExtractPatientInfo("ECG 12 derivaciones")
	assert.True(t, info.Empty())
	assert.Empty(t, info.Label())
}

func TestOverlay_ContainsLabelText(t *testing.T) {
	overlay := &Overlay{
		Width:   792,
		Height:  612,
		Boxes:   []pdftext.Rect{{X0: 10, Y0: 20, X1: 110, Y1: 70}},
		Labels:  []string{"Masculino (45 años)"},
		AnchorX: 90, AnchorY: 784, FontSize: 10,
	}

	content := overlay.contentStream()
	// Inside the PDF literal string the parentheses are backslash-escaped
	// and "ñ" is written as its Latin-1 byte.
	assert.Contains(t, content, `Masculino \(45 a`)
	assert.Contains(t, content, "a\xf1os\\)")
	assert.Contains(t, content, "1 1 1 rg")
}

func TestOverlay_BlackFillPerBox(t *testing.T) {
	overlay := &Overlay{
		Width:  792,
		Height: 612,
		Boxes: []pdftext.Rect{
			{X0: 10, Y0: 20, X1: 110, Y1: 70},
			{X0: 200, Y0: 20, X1: 300, Y1: 70},
		},
	}

	content := overlay.contentStream()
	assert.Contains(t, content, "0 0 0 rg")
	assert.Equal(t, 2, strings.Count(content, "re\nf\n"))
}

func TestOverlay_RotatedTextMatrix(t *testing.T) {
	overlay := &Overlay{
		Width:   792,
		Height:  612,
		Labels:  []string{"Femenino"},
		AnchorX: 90, AnchorY: 784,
	}

	// Anchor converts from reader space: y = height - 784.
	assert.Contains(t, overlay.contentStream(), "0 1 -1 0 90.00 -172.00 Tm")
}

func TestOverlay_BytesIsWellFormedPDF(t *testing.T) {
	overlay := &Overlay{Width: 612, Height: 792}
	data := overlay.Bytes()

	assert.True(t, strings.HasPrefix(string(data), "%PDF-1.4"))
	assert.Contains(t, string(data), "/Type /Catalog")
	assert.Contains(t, string(data), "MediaBox [0 0 612.00 792.00]")
	assert.True(t, strings.HasSuffix(string(data), "%%EOF\n"))
}

func TestEscapePDFString(t *testing.T) {
	assert.Equal(t, `\(45\)`, escapePDFString("(45)"))
	assert.Equal(t, `a\\b`, escapePDFString(`a\b`))
}

func TestResult_LabelsInRegionOrder(t *testing.T) {
	result := &Result{Info: map[int]PatientInfo{
		2: {Age: "(45 años)"},
		0: {Gender: GenderMale},
	}}
	assert.Equal(t, []string{"Masculino", "(45 años)"}, result.Labels())
}

func TestRedactFile_MissingFile(t *testing.T) {
	r := NewRedactor(nil)
	_, err := r.RedactFile(filepath.Join(t.TempDir(), "missing.pdf"), Options{})
	assert.Error(t, err)
}

func TestRedactFile_NotAPDF(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bogus.pdf")
	require.NoError(t, os.WriteFile(path, []byte("plain text"), 0600))

	r := NewRedactor(nil)
	_, err := r.RedactFile(path, Options{})
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrNoPatientInfo))
}

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.pdf")
	dst := filepath.Join(dir, "dst.pdf")
	require.NoError(t, os.WriteFile(src, []byte("%PDF-1.4 payload"), 0600))

	require.NoError(t, copyFile(src, dst))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 payload", string(data))
}
