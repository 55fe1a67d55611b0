package domain

import "time"

// DistributionRecord is an append-only fact: one good handed to one person.
// ProductName is a snapshot taken at distribution time; it intentionally
// does not follow later catalog renames or deletions.
type DistributionRecord struct {
	ID          string `json:"id"`
	NationalID  string `json:"nationalId"`
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	FullName    string `json:"fullName"`
	Timestamp   int64  `json:"timestamp"`
}

// Time converts the stored millisecond timestamp.
func (r DistributionRecord) Time() time.Time {
	return time.UnixMilli(r.Timestamp)
}
