package deposit

import "database/sql"

type SQLStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Insert(d *Deposit) error {
	res, err := s.db.Exec(`
	INSERT INTO deposits(chat_id,order_id,track_id,address,status,amount,paid_amount,created_at)
	VALUES (?,?,?,?,?,?,?,?)
	`, d.ChatID, d.OrderID, d.TrackID, d.Address, d.Status, d.Amount, d.PaidAmount, d.Created)

	if err != nil {
		return err
	}

	id, _ := res.LastInsertId()
	d.ID = int(id)
	return nil
}

func (s *SQLStore) FindByTrackID(trackID string) (*Deposit, error) {
	var d Deposit

	err := s.db.QueryRow(`
	SELECT id,chat_id,order_id,track_id,address,status,amount,paid_amount,created_at
	FROM deposits WHERE track_id=? LIMIT 1
	`, trackID).Scan(&d.ID, &d.ChatID, &d.OrderID, &d.TrackID, &d.Address, &d.Status, &d.Amount, &d.PaidAmount, &d.Created)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// UpdateIf writes the status and paid amount only while the record is still
// in the expected status. Two concurrent webhooks for the same track id
// cannot both observe pending and race conflicting terminal transitions:
// exactly one conditional update wins. Reports whether the write applied.
func (s *SQLStore) UpdateIf(trackID string, expect, next Status, paidAmount float64) (bool, error) {
	res, err := s.db.Exec(`
	UPDATE deposits SET status=?, paid_amount=?
	WHERE track_id=? AND status=?
	`, next, paidAmount, trackID, expect)

	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *SQLStore) SumConfirmed(chatID string) (float64, error) {
	var total float64

	err := s.db.QueryRow(`
	SELECT COALESCE(SUM(paid_amount),0)
	FROM deposits WHERE chat_id=? AND status='paid'
	`, chatID).Scan(&total)

	return total, err
}
