package attendance

import (
	"context"
	"time"
)

type Service struct {
	Store       StoreAPI
	OfficeLabel string
	Location    *time.Location

	// Now is swappable for tests; defaults to time.Now.
	Now func() time.Time
}

func NewService(store StoreAPI, officeLabel string, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{Store: store, OfficeLabel: officeLabel, Location: loc, Now: time.Now}
}

type TimeInRequest struct {
	Method    string `json:"method"`
	StationID string `json:"stationId"`
	KioskCode string `json:"kioskCode"`
}

// TimeIn records the day's time-in at minute precision. QR and RFID requests
// must carry the current kiosk code for their station.
func (s *Service) TimeIn(ctx context.Context, userID string, req TimeInRequest) (Record, error) {
	now := s.Now()

	method := req.Method
	if method == "" {
		method = MethodManual
	}
	if method == MethodQR || method == MethodRFID {
		station, err := s.Store.StationByID(ctx, req.StationID)
		if err != nil {
			return Record{}, err
		}
		if !ValidateKioskCode(station, req.KioskCode, now) {
			return Record{}, ErrInvalidKioskCode
		}
	}

	record, err := s.Store.InsertTimeIn(ctx, userID, DateOf(now, s.Location), now.Truncate(time.Minute), s.OfficeLabel, method)
	if err != nil {
		return Record{}, err
	}
	Derive(&record, now)
	return record, nil
}

func (s *Service) TimeOut(ctx context.Context, userID string) (Record, error) {
	now := s.Now()
	record, err := s.Store.SetTimeOut(ctx, userID, DateOf(now, s.Location), now.Truncate(time.Minute))
	if err != nil {
		return Record{}, err
	}
	Derive(&record, now)
	return record, nil
}

func (s *Service) Today(ctx context.Context, userID string) (Record, error) {
	now := s.Now()
	record, err := s.Store.RecordForDate(ctx, userID, DateOf(now, s.Location))
	if err != nil {
		return Record{}, err
	}
	Derive(&record, now)
	return record, nil
}

func (s *Service) Range(ctx context.Context, userID string, from, to time.Time) ([]Record, error) {
	now := s.Now()
	records, err := s.Store.ListRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	for i := range records {
		Derive(&records[i], now)
	}
	return records, nil
}

func (s *Service) Stations(ctx context.Context) ([]Station, error) {
	return s.Store.ListStations(ctx)
}

func (s *Service) Station(ctx context.Context, stationID string) (Station, error) {
	return s.Store.StationByID(ctx, stationID)
}
