package attendance

import (
	"context"
	"time"
)

type StoreAPI interface {
	InsertTimeIn(ctx context.Context, userID string, date, timeIn time.Time, location, method string) (Record, error)
	SetTimeOut(ctx context.Context, userID string, date, timeOut time.Time) (Record, error)
	RecordForDate(ctx context.Context, userID string, date time.Time) (Record, error)
	ListRange(ctx context.Context, userID string, from, to time.Time) ([]Record, error)
	StationByID(ctx context.Context, stationID string) (Station, error)
	ListStations(ctx context.Context) ([]Station, error)
}
