package attendance

import "time"

const (
	StatusPresent   = "present"
	StatusCompleted = "completed"
)

const (
	MethodManual = "manual"
	MethodQR     = "qr"
	MethodRFID   = "rfid"
)

type Record struct {
	ID       string     `json:"id"`
	UserID   string     `json:"userId"`
	Date     time.Time  `json:"date"`
	TimeIn   *time.Time `json:"timeIn,omitempty"`
	TimeOut  *time.Time `json:"timeOut,omitempty"`
	Status   string     `json:"status"`
	Location string     `json:"location"`
	Method   string     `json:"method"`
	Overtime string     `json:"overtime,omitempty"`
	Remarks  string     `json:"remarks,omitempty"`

	// WorkedHours is derived on every read, never stored.
	WorkedHours string `json:"workedHours,omitempty"`
}

type Station struct {
	ID         string    `json:"id"`
	Label      string    `json:"label"`
	TOTPSecret string    `json:"-"`
	CreatedAt  time.Time `json:"createdAt"`
}
