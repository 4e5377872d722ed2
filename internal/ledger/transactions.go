package ledger

import (
	apperrors "bliq/internal/errors"
	"bliq/internal/uuid"
)

// AddTransaction mints an ID for the draft and inserts it at the head of the
// month's transaction list.
func (s *State) AddTransaction(m Month, d Draft) (Transaction, error) {
	if !m.Valid() {
		return Transaction{}, apperrors.ErrInvalidMonth
	}
	if err := d.Validate(); err != nil {
		return Transaction{}, err
	}

	tx := d.WithID(uuid.New())
	txs := make([]Transaction, 0, len(s.months[m].Transactions)+1)
	txs = append(txs, tx)
	txs = append(txs, s.months[m].Transactions...)
	s.months[m].Transactions = txs
	return tx, nil
}

// UpdateTransaction replaces the record with the same ID in place, keeping
// its position in the list.
func (s *State) UpdateTransaction(m Month, tx Transaction) (Transaction, error) {
	if !m.Valid() {
		return Transaction{}, apperrors.ErrInvalidMonth
	}
	if err := tx.Draft().Validate(); err != nil {
		return Transaction{}, err
	}

	i := s.indexOf(m, tx.ID)
	if i < 0 {
		return Transaction{}, apperrors.ErrTransactionNotFound
	}

	updated := tx.Draft().WithID(tx.ID)
	s.months[m].Transactions[i] = updated
	return updated, nil
}

// RemoveTransaction deletes the record with the given ID and reports whether
// one was found.
func (s *State) RemoveTransaction(m Month, id string) (bool, error) {
	if !m.Valid() {
		return false, apperrors.ErrInvalidMonth
	}

	i := s.indexOf(m, id)
	if i < 0 {
		return false, nil
	}

	txs := s.months[m].Transactions
	s.months[m].Transactions = append(txs[:i:i], txs[i+1:]...)
	return true, nil
}

// ConfirmTransaction moves a PENDING transaction to CONFIRMED. Confirming an
// already confirmed transaction changes nothing.
func (s *State) ConfirmTransaction(m Month, id string) (Transaction, error) {
	if !m.Valid() {
		return Transaction{}, apperrors.ErrInvalidMonth
	}

	i := s.indexOf(m, id)
	if i < 0 {
		return Transaction{}, apperrors.ErrTransactionNotFound
	}

	s.months[m].Transactions[i].Status = StatusConfirmed
	return s.months[m].Transactions[i], nil
}

// FindTransaction returns the transaction with the given ID.
func (s *State) FindTransaction(m Month, id string) (Transaction, bool) {
	if !m.Valid() {
		return Transaction{}, false
	}
	i := s.indexOf(m, id)
	if i < 0 {
		return Transaction{}, false
	}
	return s.months[m].Transactions[i], true
}

func (s *State) indexOf(m Month, id string) int {
	for i, tx := range s.months[m].Transactions {
		if tx.ID == id {
			return i
		}
	}
	return -1
}
