package core

import "sort"

// Tie is a sorted set of candidates that are exactly equal under the
// decisive criterion at a cut point. A Tie is substitutable wherever a
// single candidate would appear in a result; it forces the caller (or an
// attached tie-breaking policy) to resolve the choice explicitly.
type Tie []Candidate

// NewTie builds a Tie from the given candidates, sorted and deduplicated.
func NewTie(cands ...Candidate) Tie {
	seen := make(map[Candidate]struct{}, len(cands))
	out := make(Tie, 0, len(cands))
	for _, cand := range cands {
		if _, dup := seen[cand]; dup {
			continue
		}
		seen[cand] = struct{}{}
		out = append(out, cand)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Contains reports whether the candidate is a member of the tie.
func (t Tie) Contains(cand Candidate) bool {
	for _, member := range t {
		if member == cand {
			return true
		}
	}
	return false
}

// Equal reports whether two ties hold the same candidate set.
func (t Tie) Equal(other Tie) bool {
	if len(t) != len(other) {
		return false
	}
	for i := range t {
		if t[i] != other[i] {
			return false
		}
	}
	return true
}

// Elected is one slot of a selection result: either a decided candidate or
// an unresolved Tie among equally placed candidates.
type Elected struct {
	Candidate Candidate
	Tied      Tie
}

// Decided wraps a single resolved candidate.
func Decided(cand Candidate) Elected { return Elected{Candidate: cand} }

// Unresolved wraps a tie occupying a selection slot.
func Unresolved(t Tie) Elected { return Elected{Tied: t} }

// IsTie reports whether the slot holds an unresolved tie.
func (e Elected) IsTie() bool { return len(e.Tied) > 0 }

// Selection is an ordered selection result (winner first), of size at most
// the requested seat count.
type Selection []Elected

// SelectionOf builds a fully decided selection in the given order.
func SelectionOf(cands ...Candidate) Selection {
	out := make(Selection, len(cands))
	for i, cand := range cands {
		out[i] = Decided(cand)
	}
	return out
}

// HasTie reports whether any slot is an unresolved tie.
func (s Selection) HasTie() bool {
	for _, e := range s {
		if e.IsTie() {
			return true
		}
	}
	return false
}

// Candidates returns the decided candidates in order. It fails with
// ErrUnresolvedTie if any slot is still tied.
func (s Selection) Candidates() ([]Candidate, error) {
	out := make([]Candidate, len(s))
	for i, e := range s {
		if e.IsTie() {
			return nil, ErrUnresolvedTie
		}
		out[i] = e.Candidate
	}
	return out, nil
}

// TieSeats records seats parked on an unresolved tie in a distribution.
type TieSeats struct {
	Tie   Tie
	Seats int
}

// Distribution is a seat distribution result: candidates mapped to the
// seats they won, plus any seats parked on unresolved ties. The sum of
// Seats values and tied seats equals the number of seats awarded.
type Distribution struct {
	Seats map[Candidate]int
	Ties  []TieSeats
}

// NewDistribution returns an empty distribution ready for awarding.
func NewDistribution() Distribution {
	return Distribution{Seats: map[Candidate]int{}}
}

// DistributionOf builds a tie-free distribution from a seat mapping.
func DistributionOf(seats map[Candidate]int) Distribution {
	d := NewDistribution()
	for cand, n := range seats {
		d.Seats[cand] = n
	}
	return d
}

// TotalSeats returns the number of seats awarded, tied seats included.
func (d Distribution) TotalSeats() int {
	total := 0
	for _, n := range d.Seats {
		total += n
	}
	for _, ts := range d.Ties {
		total += ts.Seats
	}
	return total
}

// HasTie reports whether any seats are parked on an unresolved tie.
func (d Distribution) HasTie() bool { return len(d.Ties) > 0 }

// Clone returns an independent copy of the distribution.
func (d Distribution) Clone() Distribution {
	out := Distribution{Seats: make(map[Candidate]int, len(d.Seats))}
	for cand, n := range d.Seats {
		out.Seats[cand] = n
	}
	if len(d.Ties) > 0 {
		out.Ties = make([]TieSeats, len(d.Ties))
		copy(out.Ties, d.Ties)
	}
	return out
}

// AddTie parks seats on a tie, merging with an existing identical tie entry.
func (d *Distribution) AddTie(t Tie, seats int) {
	for i := range d.Ties {
		if d.Ties[i].Tie.Equal(t) {
			d.Ties[i].Seats += seats
			return
		}
	}
	d.Ties = append(d.Ties, TieSeats{Tie: t, Seats: seats})
}

// Candidates returns all seat-holding candidates, sorted by identifier.
func (d Distribution) Candidates() []Candidate {
	out := make([]Candidate, 0, len(d.Seats))
	for cand := range d.Seats {
		out = append(out, cand)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// DistrictDistribution is a distribution result keyed by constituency.
type DistrictDistribution map[District]Distribution

// TotalSeats returns the seats awarded across all districts.
func (dd DistrictDistribution) TotalSeats() int {
	total := 0
	for _, d := range dd {
		total += d.TotalSeats()
	}
	return total
}

// DistrictSelection is a selection result keyed by constituency.
type DistrictSelection map[District]Selection
