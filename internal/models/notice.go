package models

import "time"

// Notice is the row shape for one diagnostic entry attached to a checkin.
// Status keeps the free-form casing the producing service sent.
type Notice struct {
	NoticeID   string    `db:"notice_id"`
	CheckinID  string    `db:"checkin_id"`
	Stage      string    `db:"stage"`
	Checkpoint string    `db:"checkpoint"`
	Message    string    `db:"message"`
	Status     string    `db:"status"`
	CreatedAt  time.Time `db:"created_at"`
}
