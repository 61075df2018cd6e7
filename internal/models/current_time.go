package models

import "time"

type CurrentTimeModel struct {
	ReadableTime string `json:"readableTime"`
	Time         int64  `json:"time"`
	TimeOfDay    string `json:"timeOfDay"`
}

// NewCurrentTimeModel describes t in milliseconds, RFC 3339 and HH:MM:SS.
func NewCurrentTimeModel(t time.Time) CurrentTimeModel {
	return CurrentTimeModel{
		ReadableTime: t.Format(time.RFC3339),
		Time:         t.UnixMilli(),
		TimeOfDay:    t.Format("15:04:05"),
	}
}
