package opshub

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/jhoicas/opshub/internal/domain"
)

// errorBody forma del error que devuelve el backend ({"code": ..., "message": ...}).
type errorBody struct {
	Message string `json:"message"`
}

// decodeBody interpreta una respuesta 2xx. Vacía -> nil. JSON válido -> tal cual.
// Si sobra texto alrededor se usa el primer bloque {...} o [...] válido y salvaged es true.
func decodeBody(status int, raw []byte) (out json.RawMessage, salvaged bool, err error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, false, nil
	}
	if json.Valid(trimmed) {
		return json.RawMessage(trimmed), false, nil
	}
	if span := salvageJSON(trimmed); span != nil {
		return json.RawMessage(span), true, nil
	}
	return nil, false, domain.NewRequestError(domain.ErrMalformedResponse, status, string(trimmed), raw)
}

// errorMessage mensaje para un error HTTP: "message" del JSON, del JSON rescatado, el texto crudo
// o "" (NewRequestError genera entonces "Request failed with status N").
func errorMessage(raw []byte) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return ""
	}
	if json.Valid(trimmed) {
		return messageField(trimmed)
	}
	if span := salvageJSON(trimmed); span != nil {
		if msg := messageField(span); msg != "" {
			return msg
		}
	}
	return string(trimmed)
}

func messageField(doc []byte) string {
	var body errorBody
	if err := json.Unmarshal(doc, &body); err != nil {
		return ""
	}
	return strings.TrimSpace(body.Message)
}

// salvageJSON busca el primer tramo balanceado {...} o [...] que sea JSON válido.
// Respeta strings y escapes, así que llaves dentro de literales no cortan el bloque.
func salvageJSON(raw []byte) []byte {
	for i := 0; i < len(raw); i++ {
		if raw[i] != '{' && raw[i] != '[' {
			continue
		}
		end := matchClose(raw, i)
		if end < 0 {
			continue
		}
		if span := raw[i : end+1]; json.Valid(span) {
			return span
		}
	}
	return nil
}

// matchClose índice del cierre que balancea la apertura en start, o -1.
func matchClose(raw []byte, start int) int {
	stack := make([]byte, 0, 8)
	inString, escaped := false, false
	for i := start; i < len(raw); i++ {
		ch := raw[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			stack = append(stack, '}')
		case '[':
			stack = append(stack, ']')
		case '}', ']':
			if len(stack) == 0 || stack[len(stack)-1] != ch {
				return -1
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return i
			}
		}
	}
	return -1
}
