package models

// WasteReason explains why food was discarded.
type WasteReason string

const (
	WasteReasonSpoiled      WasteReason = "Spoiled"
	WasteReasonOverPrepared WasteReason = "Over-Prepared"
	WasteReasonOther        WasteReason = "Other"
)

func (r WasteReason) String() string {
	return string(r)
}

// WasteReasons lists the accepted reasons in display order.
func WasteReasons() []WasteReason {
	return []WasteReason{WasteReasonSpoiled, WasteReasonOverPrepared, WasteReasonOther}
}

// IsValid reports whether r is one of the accepted reasons.
func (r WasteReason) IsValid() bool {
	for _, v := range WasteReasons() {
		if r == v {
			return true
		}
	}
	return false
}

// WasteEntry is one logged discard event. The log is append-only.
type WasteEntry struct {
	ID       string      `json:"id,omitempty"`
	Item     string      `json:"Item"`
	Quantity int         `json:"Quantity"`
	Reason   WasteReason `json:"Reason"`
	Date     Date        `json:"Date"`
}

// DailyTotal is the summed waste quantity for one date.
type DailyTotal struct {
	Date  Date
	Total float64
}
