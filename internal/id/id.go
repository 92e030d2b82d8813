package id

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ImportPrefix namespaces import IDs created by this tool. The version digit
// lets a future scheme coexist with IDs already stored in the destination.
const ImportPrefix = "up0:"

// MaxImportIDLen is the longest import ID the destination accepts.
const MaxImportIDLen = 36

// ImportID derives the destination import ID for a source transaction ID:
// "up0:" followed by the UUID's 32 lowercase hex digits.
// "0b5bf2c5-9a4d-4b0e-8d5e-2b3c4d5e6f70" -> "up0:0b5bf2c59a4d4b0e8d5e2b3c4d5e6f70"
func ImportID(sourceID string) (string, error) {
	u, err := uuid.Parse(sourceID)
	if err != nil {
		return "", fmt.Errorf("invalid source transaction ID %q: %w", sourceID, err)
	}
	return ImportPrefix + hex.EncodeToString(u[:]), nil
}

// SourceID reverses ImportID, returning the hyphenated source UUID.
func SourceID(importID string) (string, error) {
	hexPart, ok := strings.CutPrefix(importID, ImportPrefix)
	if !ok {
		return "", fmt.Errorf("import ID %q lacks prefix %q", importID, ImportPrefix)
	}
	raw, err := hex.DecodeString(hexPart)
	if err != nil {
		return "", fmt.Errorf("decoding import ID %q: %w", importID, err)
	}
	u, err := uuid.FromBytes(raw)
	if err != nil {
		return "", fmt.Errorf("decoding import ID %q: %w", importID, err)
	}
	return u.String(), nil
}

// IsOwn reports whether importID was produced by ImportID.
func IsOwn(importID string) bool {
	_, err := SourceID(importID)
	return err == nil
}
