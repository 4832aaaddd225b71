// Package store persists users' named addresses behind a pseudonymous
// identity. Records are keyed by a locally generated random token, never by
// the voice platform's account identifier; the binding between the two lives
// only inside this package and is never exposed to callers or logs.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"spokesperson/internal/kv"
	"spokesperson/internal/models"
)

// ErrStoreUnavailable indicates a persistence backend error, treated as
// transient: the user is told to try again.
var ErrStoreUnavailable = errors.New("store: persistence backend unavailable")

const (
	aliasPrefix  = "alias/"
	recordPrefix = "user/"
)

// record is the single stored blob per pseudonymous token.
type record struct {
	Addresses map[string]models.StoredAddress `json:"addresses"`
}

// AddressStore is the sole writer of stored addresses. The caller must only
// invoke Put after the user has explicitly confirmed the resolved address;
// the store itself does not track the confirmation dialog.
type AddressStore struct {
	backend kv.Store
}

// New creates an AddressStore over any key-value backend.
func New(backend kv.Store) *AddressStore {
	return &AddressStore{backend: backend}
}

// Put saves an address under the user's label, overwriting any previous
// address with that label. Other labels are preserved.
func (s *AddressStore) Put(ctx context.Context, platformID, label, address string, lat, lon float64) error {
	token, err := s.token(ctx, platformID, true)
	if err != nil {
		return err
	}

	rec, err := s.load(ctx, token)
	if err != nil {
		return err
	}
	if rec.Addresses == nil {
		rec.Addresses = make(map[string]models.StoredAddress)
	}
	rec.Addresses[label] = models.StoredAddress{
		Label:   label,
		Address: address,
		Lat:     lat,
		Lon:     lon,
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding address record: %w", err)
	}
	if err := s.backend.Set(ctx, recordPrefix+token, data); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// Get returns the address stored under a label, if any.
func (s *AddressStore) Get(ctx context.Context, platformID, label string) (models.StoredAddress, bool, error) {
	all, err := s.GetAll(ctx, platformID)
	if err != nil {
		return models.StoredAddress{}, false, err
	}
	addr, ok := all[label]
	return addr, ok, nil
}

// GetAll returns every stored address for the user, keyed by label.
// A user with nothing stored gets an empty map.
func (s *AddressStore) GetAll(ctx context.Context, platformID string) (map[string]models.StoredAddress, error) {
	token, err := s.token(ctx, platformID, false)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return map[string]models.StoredAddress{}, nil
	}

	rec, err := s.load(ctx, token)
	if err != nil {
		return nil, err
	}
	if rec.Addresses == nil {
		return map[string]models.StoredAddress{}, nil
	}
	return rec.Addresses, nil
}

// DeleteAll removes every stored address for the user along with the
// pseudonymous token binding, so nothing for this user remains retrievable.
// Idempotent: deleting an unknown user succeeds.
func (s *AddressStore) DeleteAll(ctx context.Context, platformID string) error {
	token, err := s.token(ctx, platformID, false)
	if err != nil {
		return err
	}
	if token == "" {
		return nil
	}

	if err := s.backend.Delete(ctx, recordPrefix+token); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	// Drop the binding last: if the record delete failed above we still
	// know which record to retry. A later Put mints a fresh token.
	if err := s.backend.Delete(ctx, aliasPrefix+platformID); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// token resolves the platform identifier to the pseudonymous storage token,
// minting a new random one when create is set and no binding exists yet.
// Returns "" when no binding exists and create is false.
func (s *AddressStore) token(ctx context.Context, platformID string, create bool) (string, error) {
	data, err := s.backend.Get(ctx, aliasPrefix+platformID)
	if err == nil {
		return string(data), nil
	}
	if !errors.Is(err, kv.ErrNotFound) {
		return "", fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if !create {
		return "", nil
	}

	token := uuid.NewString()
	if err := s.backend.Set(ctx, aliasPrefix+platformID, []byte(token)); err != nil {
		return "", fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return token, nil
}

func (s *AddressStore) load(ctx context.Context, token string) (record, error) {
	var rec record
	data, err := s.backend.Get(ctx, recordPrefix+token)
	if errors.Is(err, kv.ErrNotFound) {
		return rec, nil
	}
	if err != nil {
		return rec, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return rec, fmt.Errorf("decoding address record: %w", err)
	}
	return rec, nil
}
