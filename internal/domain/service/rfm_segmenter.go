package service

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// rfmSegments is the ordered segment table. Each RFM code appears in at
// most one segment and the first matching segment wins; codes not
// listed fall through to Others.
var rfmSegments = []struct {
	Name  string
	Codes []string
}{
	{"Champions", []string{"555", "554", "544", "545", "454", "455", "445"}},
	{"Loyal Customers", []string{"543", "444", "435", "355", "354", "345", "344", "335"}},
	{"Potential Loyalists", []string{"512", "511", "422", "421", "412", "411", "311"}},
	{"New Customers", []string{"533", "532", "531", "523", "522", "521", "515", "514", "513", "425", "424", "413", "414", "415", "315", "314", "313"}},
	{"At Risk", []string{"155", "154", "144", "214", "215", "115", "114"}},
}

const rfmOtherSegment = "Others"

// RFMCustomer is one customer's recency/frequency/monetary profile and
// assigned segment.
type RFMCustomer struct {
	CustomerID string
	Recency    int
	Frequency  int
	Monetary   float64
	RScore     int
	FScore     int
	MScore     int
	Code       string
	Segment    string
}

// SegmentStat summarizes one segment's membership.
type SegmentStat struct {
	Customers    int
	AvgRecency   float64
	AvgFrequency float64
	AvgMonetary  float64
}

// RFMAnalysis is the outcome of segmenting one customer population.
type RFMAnalysis struct {
	TotalCustomers int
	Distribution   map[string]int
	SegmentStats   map[string]SegmentStat
	AvgRecency     float64
	AvgFrequency   float64
	AvgMonetary    float64
	TopCustomers   []RFMCustomer
	ComputedAt     time.Time
}

// RFMSegmenter assigns customers to marketing segments by quintile
// scores on recency, frequency and monetary value. Quintiles are
// rank-based with stable ties, so the segmentation is deterministic
// for a given input order.
type RFMSegmenter struct{}

// NewRFMSegmenter creates a new RFMSegmenter.
func NewRFMSegmenter() *RFMSegmenter {
	return &RFMSegmenter{}
}

// Segment profiles and segments a customer population. Customers
// without transactions are skipped; at least one customer must have
// transaction history. All recency calculations share the single now.
func (s *RFMSegmenter) Segment(customers []Record, now time.Time) (RFMAnalysis, error) {
	if len(customers) == 0 {
		return RFMAnalysis{}, fmt.Errorf("at least one customer is required")
	}

	profiled := make([]RFMCustomer, 0, len(customers))
	for _, rec := range customers {
		if rec == nil {
			continue
		}
		customer, ok := profileCustomer(rec, now)
		if !ok {
			continue
		}
		profiled = append(profiled, customer)
	}
	if len(profiled) == 0 {
		return RFMAnalysis{}, fmt.Errorf("no customer has transaction history")
	}

	// Lower recency is better, so its quintile scores run reversed.
	recency := make([]float64, len(profiled))
	frequency := make([]float64, len(profiled))
	monetary := make([]float64, len(profiled))
	for i, c := range profiled {
		recency[i] = float64(c.Recency)
		frequency[i] = float64(c.Frequency)
		monetary[i] = float64(c.Monetary)
	}
	rScores := quintileScores(recency, true)
	fScores := quintileScores(frequency, false)
	mScores := quintileScores(monetary, false)

	distribution := make(map[string]int)
	stats := make(map[string]SegmentStat)
	var sumR, sumF, sumM float64

	for i := range profiled {
		c := &profiled[i]
		c.RScore, c.FScore, c.MScore = rScores[i], fScores[i], mScores[i]
		c.Code = fmt.Sprintf("%d%d%d", c.RScore, c.FScore, c.MScore)
		c.Segment = segmentFor(c.Code)

		distribution[c.Segment]++
		st := stats[c.Segment]
		st.Customers++
		st.AvgRecency += float64(c.Recency)
		st.AvgFrequency += float64(c.Frequency)
		st.AvgMonetary += c.Monetary
		stats[c.Segment] = st

		sumR += float64(c.Recency)
		sumF += float64(c.Frequency)
		sumM += c.Monetary
	}

	for name, st := range stats {
		n := float64(st.Customers)
		st.AvgRecency = round2(st.AvgRecency / n)
		st.AvgFrequency = round2(st.AvgFrequency / n)
		st.AvgMonetary = round2(st.AvgMonetary / n)
		stats[name] = st
	}

	n := float64(len(profiled))
	return RFMAnalysis{
		TotalCustomers: len(profiled),
		Distribution:   distribution,
		SegmentStats:   stats,
		AvgRecency:     round2(sumR / n),
		AvgFrequency:   round2(sumF / n),
		AvgMonetary:    round2(sumM / n),
		TopCustomers:   topByMonetary(profiled, 10),
		ComputedAt:     now,
	}, nil
}

// profileCustomer derives recency (days since last transaction),
// frequency (transaction count) and monetary value (sum of absolute
// amounts) for one customer.
func profileCustomer(rec Record, now time.Time) (RFMCustomer, bool) {
	raw, ok := rec.Lookup("transactions")
	if !ok {
		return RFMCustomer{}, false
	}
	list, isList := raw.([]any)
	if !isList || len(list) == 0 {
		return RFMCustomer{}, false
	}

	var last time.Time
	var total float64
	count := 0
	for _, entry := range list {
		tx, isMap := entry.(map[string]any)
		if !isMap {
			continue
		}
		ts, err := timeValue(tx["date"])
		if err != nil {
			continue
		}
		if ts.After(last) {
			last = ts
		}
		if amount, isNum := toFloat(tx["amount"]); isNum {
			total += math.Abs(amount)
		}
		count++
	}
	if count == 0 {
		return RFMCustomer{}, false
	}

	return RFMCustomer{
		CustomerID: stringAt(rec, "customer_id"),
		Recency:    int(math.Floor(now.Sub(last).Hours() / 24)),
		Frequency:  count,
		Monetary:   total,
	}, true
}

// quintileScores assigns 1-5 by rank-based n-tiles, ties broken by
// input position. With reverse set the lowest values score 5.
func quintileScores(values []float64, reverse bool) []int {
	order := make([]int, len(values))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return values[order[a]] < values[order[b]]
	})

	scores := make([]int, len(values))
	n := len(values)
	for rank, idx := range order {
		bucket := rank * 5 / n
		if reverse {
			scores[idx] = 5 - bucket
		} else {
			scores[idx] = bucket + 1
		}
	}
	return scores
}

func segmentFor(code string) string {
	for _, seg := range rfmSegments {
		for _, c := range seg.Codes {
			if c == code {
				return seg.Name
			}
		}
	}
	return rfmOtherSegment
}

func topByMonetary(customers []RFMCustomer, limit int) []RFMCustomer {
	top := append([]RFMCustomer(nil), customers...)
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].Monetary > top[j].Monetary
	})
	if len(top) > limit {
		top = top[:limit]
	}
	return top
}
