package service

import (
	"encoding/json"
	"errors"
	"fmt"

	jsonpatch "github.com/evanphx/json-patch/v5"
)

var (
	ErrInvalidDocument = errors.New("invalid JSON document")
	ErrInvalidPatch    = errors.New("invalid JSON patch")
)

// PatchEngine применяет RFC 6902 JSON Patch к JSON документу.
type PatchEngine struct{}

func NewPatchEngine() *PatchEngine {
	return &PatchEngine{}
}

// Apply применяет патч строго по порядку операций. Любая ошибка
// отменяет результат целиком - частично измененный документ наружу
// не возвращается.
func (e *PatchEngine) Apply(document, patchDoc []byte) ([]byte, error) {
	if !json.Valid(document) {
		return nil, ErrInvalidDocument
	}

	patch, err := jsonpatch.DecodePatch(patchDoc)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPatch, err)
	}

	patched, err := patch.Apply(document)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPatch, err)
	}

	return patched, nil
}
