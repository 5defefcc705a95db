package hist

import (
	"fmt"
	"sort"
	"strings"
)

// OrderedSparse represents a histogram as two parallel arrays, Topics
// and Counts, with Counts in descending order.  Ties are broken by
// ascending topic id so that the order is total.  Reporting code uses
// it to list the heaviest topics of a word or the heaviest words of a
// topic.
type OrderedSparse struct {
	Topics []int32
	Counts []int64
}

func NewOrderedSparse() *OrderedSparse {
	return &OrderedSparse{}
}

// Len makes OrderedSparse compatible with sort.Interface.
func (o *OrderedSparse) Len() int {
	return len(o.Topics)
}

// Less sorts by descending count, then ascending topic.
func (o *OrderedSparse) Less(i, j int) bool {
	return o.Counts[i] > o.Counts[j] ||
		(o.Counts[i] == o.Counts[j] && o.Topics[i] < o.Topics[j])
}

func (o *OrderedSparse) Swap(i, j int) {
	o.Topics[i], o.Topics[j] = o.Topics[j], o.Topics[i]
	o.Counts[i], o.Counts[j] = o.Counts[j], o.Counts[i]
}

// Assign clears o and rebuilds it from s.
func (o *OrderedSparse) Assign(s Hist) *OrderedSparse {
	o.Topics = make([]int32, 0, s.Len())
	o.Counts = make([]int64, 0, s.Len())
	s.ForEach(func(topic int, count int64) error {
		o.Topics = append(o.Topics, int32(topic))
		o.Counts = append(o.Counts, count)
		return nil
	})
	sort.Sort(o)
	return o
}

func (o *OrderedSparse) At(topic int) int64 {
	for i := range o.Topics {
		if int(o.Topics[i]) == topic {
			return o.Counts[i]
		}
	}
	return 0
}

// ForEach visits elements in descending count order.
func (o *OrderedSparse) ForEach(p func(topic int, count int64) error) error {
	for i := range o.Topics {
		if e := p(int(o.Topics[i]), o.Counts[i]); e != nil {
			return e
		}
	}
	return nil
}

func (o *OrderedSparse) Clone() Hist {
	n := NewOrderedSparse()
	n.Topics = append([]int32(nil), o.Topics...)
	n.Counts = append([]int64(nil), o.Counts...)
	return n
}

// String prints the histogram as topic:count pairs.
func (o *OrderedSparse) String() string {
	var b strings.Builder
	b.WriteString("[ ")
	for i, topic := range o.Topics {
		fmt.Fprintf(&b, "%d:%d ", topic, o.Counts[i])
	}
	b.WriteString("]")
	return b.String()
}
