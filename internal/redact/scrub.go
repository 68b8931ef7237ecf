// SPDX-License-Identifier: Apache-2.0

package redact

import (
	"bytes"
	"fmt"
	"strconv"

	"ecg-scrub/internal/pdftext"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// scrubFileRegions removes the text-showing operators positioned inside the
// given PDF-space rectangles from the first page's content stream and writes
// the file back in place. Painting a black box alone only covers the text;
// the glyphs underneath would remain extractable.
func scrubFileRegions(path string, regions []pdftext.Rect) error {
	ctx, err := api.ReadContextFile(path)
	if err != nil {
		return fmt.Errorf("failed to read PDF context: %w", err)
	}

	pageDict, _, _, err := ctx.PageDict(1, false)
	if err != nil {
		return fmt.Errorf("failed to read page dict: %w", err)
	}

	content, err := ctx.PageContent(pageDict)
	if err != nil {
		return fmt.Errorf("failed to read page content: %w", err)
	}

	scrubbed := scrubContent(content, regions)

	sd, err := ctx.NewStreamDictForBuf(scrubbed)
	if err != nil {
		return fmt.Errorf("failed to build content stream: %w", err)
	}
	if err := sd.Encode(); err != nil {
		return fmt.Errorf("failed to encode content stream: %w", err)
	}
	ir, err := ctx.IndRefForNewObject(*sd)
	if err != nil {
		return fmt.Errorf("failed to allocate content stream object: %w", err)
	}
	pageDict.Update("Contents", *ir)

	if err := api.WriteContextFile(ctx, path); err != nil {
		return fmt.Errorf("failed to write scrubbed PDF: %w", err)
	}
	return nil
}

// matrix is a PDF transformation matrix [a b c d e f].
type matrix [6]float64

var identity = matrix{1, 0, 0, 1, 0, 0}

// mul returns m × n (m applied first).
func (m matrix) mul(n matrix) matrix {
	return matrix{
		m[0]*n[0] + m[1]*n[2],
		m[0]*n[1] + m[1]*n[3],
		m[2]*n[0] + m[3]*n[2],
		m[2]*n[1] + m[3]*n[3],
		m[4]*n[0] + m[5]*n[2] + n[4],
		m[4]*n[1] + m[5]*n[3] + n[5],
	}
}

func translation(tx, ty float64) matrix {
	return matrix{1, 0, 0, 1, tx, ty}
}

// scrubber walks a content stream tracking just enough text and graphics
// state to locate each text-showing operator on the page.
type scrubber struct {
	regions []pdftext.Rect

	out      bytes.Buffer
	operands []string

	ctm        matrix
	ctmStack   []matrix
	textMatrix matrix
	lineMatrix matrix
	leading    float64
	fontSize   float64
}

// scrubContent re-emits the content stream with every text-showing operator
// whose position falls inside a region removed. Positioning and state
// operators are kept so the surviving text renders unchanged.
func scrubContent(content []byte, regions []pdftext.Rect) []byte {
	s := &scrubber{
		regions:    regions,
		ctm:        identity,
		textMatrix: identity,
		lineMatrix: identity,
		fontSize:   12,
	}

	for _, token := range tokenizeContent(content) {
		if isOperand(token) {
			s.operands = append(s.operands, token)
			continue
		}
		s.processOperator(token)
		s.operands = nil
	}

	return s.out.Bytes()
}

func (s *scrubber) processOperator(op string) {
	switch op {
	case "q":
		s.ctmStack = append(s.ctmStack, s.ctm)
		s.emit(op)
	case "Q":
		if n := len(s.ctmStack); n > 0 {
			s.ctm = s.ctmStack[n-1]
			s.ctmStack = s.ctmStack[:n-1]
		}
		s.emit(op)
	case "cm":
		if m, ok := s.operandMatrix(); ok {
			s.ctm = m.mul(s.ctm)
		}
		s.emit(op)
	case "BT":
		s.textMatrix = identity
		s.lineMatrix = identity
		s.emit(op)
	case "Tf":
		if len(s.operands) == 2 {
			if size, err := strconv.ParseFloat(s.operands[1], 64); err == nil {
				s.fontSize = size
			}
		}
		s.emit(op)
	case "TL":
		if len(s.operands) == 1 {
			if l, err := strconv.ParseFloat(s.operands[0], 64); err == nil {
				s.leading = l
			}
		}
		s.emit(op)
	case "Td":
		s.textMove()
		s.emit(op)
	case "TD":
		if len(s.operands) == 2 {
			if ty, err := strconv.ParseFloat(s.operands[1], 64); err == nil {
				s.leading = -ty
			}
		}
		s.textMove()
		s.emit(op)
	case "Tm":
		if m, ok := s.operandMatrix(); ok {
			s.textMatrix = m
			s.lineMatrix = m
		}
		s.emit(op)
	case "T*":
		s.nextLine()
		s.emit(op)
	case "Tj", "TJ":
		if s.hit() {
			s.operands = nil
			return
		}
		s.emit(op)
	case "'":
		s.nextLine()
		if s.hit() {
			// Keep the line advance the operator implies.
			s.operands = nil
			s.emit("T*")
			return
		}
		s.emit(op)
	case "\"":
		s.nextLine()
		if s.hit() {
			// Keep the spacing and line advance, drop only the string.
			if len(s.operands) == 3 {
				aw, ac := s.operands[0], s.operands[1]
				s.operands = []string{aw}
				s.emit("Tw")
				s.operands = []string{ac}
				s.emit("Tc")
			}
			s.operands = nil
			s.emit("T*")
			return
		}
		s.emit(op)
	default:
		s.emit(op)
	}
}

// hit reports whether the current text position lies inside any region. The
// glyph extends roughly one font size above the baseline.
func (s *scrubber) hit() bool {
	trm := s.textMatrix.mul(s.ctm)
	x, y := trm[4], trm[5]

	height := s.fontSize * trm[3]
	if height < 0 {
		height = -height
	}
	if height == 0 {
		height = 12
	}

	for _, r := range s.regions {
		if r.Contains(x, y) || r.Contains(x, y+height) {
			return true
		}
	}
	return false
}

// textMove applies Td/TD: translate the line matrix and restart the text
// matrix there.
func (s *scrubber) textMove() {
	if len(s.operands) < 2 {
		return
	}
	tx, err1 := strconv.ParseFloat(s.operands[len(s.operands)-2], 64)
	ty, err2 := strconv.ParseFloat(s.operands[len(s.operands)-1], 64)
	if err1 != nil || err2 != nil {
		return
	}
	s.lineMatrix = translation(tx, ty).mul(s.lineMatrix)
	s.textMatrix = s.lineMatrix
}

func (s *scrubber) nextLine() {
	s.lineMatrix = translation(0, -s.leading).mul(s.lineMatrix)
	s.textMatrix = s.lineMatrix
}

// operandMatrix reads six numeric operands.
func (s *scrubber) operandMatrix() (matrix, bool) {
	if len(s.operands) != 6 {
		return identity, false
	}
	var m matrix
	for i, operand := range s.operands {
		v, err := strconv.ParseFloat(operand, 64)
		if err != nil {
			return identity, false
		}
		m[i] = v
	}
	return m, true
}

// emit writes the pending operands and the operator to the output stream.
func (s *scrubber) emit(op string) {
	for _, operand := range s.operands {
		s.out.WriteString(operand)
		s.out.WriteByte(' ')
	}
	s.out.WriteString(op)
	s.out.WriteByte('\n')
}

// tokenizeContent splits a content stream into operand and operator tokens.
// String tokens keep their delimiters and escapes so they re-emit verbatim.
func tokenizeContent(content []byte) []string {
	var tokens []string
	reader := bytes.NewReader(content)

	for reader.Len() > 0 {
		b, err := reader.ReadByte()
		if err != nil {
			break
		}
		if isStreamWhitespace(b) {
			continue
		}

		switch b {
		case '(':
			tokens = append(tokens, "("+readStringLiteral(reader)+")")
		case '<':
			next, _ := reader.ReadByte()
			if next == '<' {
				tokens = append(tokens, "<<")
			} else {
				reader.UnreadByte()
				tokens = append(tokens, "<"+readHexString(reader)+">")
			}
		case '>':
			next, _ := reader.ReadByte()
			if next == '>' {
				tokens = append(tokens, ">>")
			} else {
				reader.UnreadByte()
			}
		case '[':
			tokens = append(tokens, "[")
		case ']':
			tokens = append(tokens, "]")
		case '/':
			tokens = append(tokens, "/"+readRegularToken(reader))
		case '%':
			skipComment(reader)
		default:
			reader.UnreadByte()
			if token := readRegularToken(reader); token != "" {
				tokens = append(tokens, token)
			}
		}
	}

	return tokens
}

// readStringLiteral reads a literal string body, preserving escapes and
// balanced nested parentheses.
func readStringLiteral(reader *bytes.Reader) string {
	var result []byte
	depth := 1

	for reader.Len() > 0 {
		b, err := reader.ReadByte()
		if err != nil {
			break
		}
		switch b {
		case '\\':
			next, _ := reader.ReadByte()
			result = append(result, '\\', next)
		case '(':
			depth++
			result = append(result, b)
		case ')':
			depth--
			if depth == 0 {
				return string(result)
			}
			result = append(result, b)
		default:
			result = append(result, b)
		}
	}
	return string(result)
}

func readHexString(reader *bytes.Reader) string {
	var result []byte
	for reader.Len() > 0 {
		b, err := reader.ReadByte()
		if err != nil || b == '>' {
			break
		}
		if !isStreamWhitespace(b) {
			result = append(result, b)
		}
	}
	return string(result)
}

func readRegularToken(reader *bytes.Reader) string {
	var result []byte
	for reader.Len() > 0 {
		b, err := reader.ReadByte()
		if err != nil {
			break
		}
		if isStreamDelimiter(b) || isStreamWhitespace(b) {
			reader.UnreadByte()
			break
		}
		result = append(result, b)
	}
	return string(result)
}

func skipComment(reader *bytes.Reader) {
	for reader.Len() > 0 {
		b, _ := reader.ReadByte()
		if b == '\n' || b == '\r' {
			break
		}
	}
}

// isOperand reports whether a token is an operand rather than an operator.
func isOperand(token string) bool {
	if token == "" {
		return false
	}
	switch token[0] {
	case '(', '<', '/', '[', ']', '>':
		return true
	}
	switch token {
	case "true", "false", "null":
		return true
	}
	_, err := strconv.ParseFloat(token, 64)
	return err == nil
}

func isStreamWhitespace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f' || b == 0
}

func isStreamDelimiter(b byte) bool {
	return b == '(' || b == ')' || b == '<' || b == '>' || b == '[' || b == ']' ||
		b == '{' || b == '}' || b == '/' || b == '%'
}
