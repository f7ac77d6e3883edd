// Package file persists the ledger snapshot as a local JSON key-value
// file with two keys, "cards" and "paymentHistory". Loads are validated
// against a JSON schema and fail closed on anything malformed.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"cardpay-go/internal/store"
)

type document struct {
	Cards          []store.CardDTO          `json:"cards"`
	PaymentHistory []store.PaymentRecordDTO `json:"paymentHistory"`
}

type Store struct {
	path   string
	schema *gojsonschema.Schema
}

func New(path string) (*Store, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(ledgerStateSchema))
	if err != nil {
		return nil, fmt.Errorf("compile snapshot schema: %w", err)
	}
	return &Store{path: path, schema: schema}, nil
}

func (s *Store) Load(ctx context.Context) (*store.Snapshot, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return &store.Snapshot{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	res, err := s.schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("validate %s: %w", s.path, err)
	}
	if !res.Valid() {
		details := make([]string, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			details = append(details, e.String())
		}
		return nil, fmt.Errorf("snapshot %s failed schema validation: %s", s.path, strings.Join(details, "; "))
	}

	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	cards, err := store.CardsFromDTO(doc.Cards)
	if err != nil {
		return nil, err
	}
	history, err := store.HistoryFromDTO(doc.PaymentHistory)
	if err != nil {
		return nil, err
	}
	return &store.Snapshot{Cards: cards, PaymentHistory: history}, nil
}

func (s *Store) Save(ctx context.Context, snap *store.Snapshot) error {
	doc := document{
		Cards:          store.CardsToDTO(snap.Cards),
		PaymentHistory: store.HistoryToDTO(snap.PaymentHistory),
	}
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	// Write-then-rename keeps the previous snapshot intact if the
	// process dies mid-write.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	return nil
}

var _ store.Store = (*Store)(nil)
