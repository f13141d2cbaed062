package proportional

import (
	"github.com/mkadlec/psephos/core"
)

// Apportioner determines how many seats each constituency receives out of
// a total, usually from the votes cast there. Used by Biproportional and
// the constituency composites.
type Apportioner interface {
	Apportion(votes core.DistrictVotes, totalSeats int) (map[core.District]int, error)
}

// FixedApportioner grants every constituency the same fixed seat count,
// ignoring the requested total.
type FixedApportioner int

func (f FixedApportioner) Apportion(votes core.DistrictVotes, _ int) (map[core.District]int, error) {
	out := make(map[core.District]int, len(votes))
	for district := range votes {
		out[district] = int(f)
	}
	return out, nil
}

// StaticApportioner returns a pre-determined seat count per constituency.
type StaticApportioner map[core.District]int

func (s StaticApportioner) Apportion(core.DistrictVotes, int) (map[core.District]int, error) {
	out := make(map[core.District]int, len(s))
	for district, seats := range s {
		out[district] = seats
	}
	return out, nil
}

// DistributorApportioner apportions the total by the votes cast in each
// constituency through a seat distributor. A tie between constituencies is
// unrecoverable here and surfaces as a TieError.
type DistributorApportioner struct {
	Distributor core.Distributor
}

func (da DistributorApportioner) Apportion(votes core.DistrictVotes, totalSeats int) (map[core.District]int, error) {
	byDistrict := core.Votes{}
	for district, dvotes := range votes {
		byDistrict[core.Candidate(district)] = dvotes.Total()
	}
	dist, err := da.Distributor.Evaluate(byDistrict, totalSeats)
	if err != nil {
		return nil, err
	}
	if dist.HasTie() {
		return nil, core.NewTieError(dist.Ties[0].Tie, "constituency apportionment")
	}
	out := make(map[core.District]int, len(dist.Seats))
	for cand, seats := range dist.Seats {
		out[core.District(cand)] = seats
	}
	return out, nil
}
