package core

// Plurality elects the candidates with the most votes. With one seat and
// one vote per voter this is first-past-the-post; with more seats it covers
// single non-transferable vote, plurality-at-large, limited and cumulative
// voting, and the counting stage of approval and score systems once their
// ballots are aggregated to simple votes (see the convert package).
//
// Exact vote ties at the cut produce Tie slots, never an arbitrary winner.
type Plurality struct{}

// Evaluate selects seats candidates by descending vote count.
func (Plurality) Evaluate(votes Votes, seats int) (Selection, error) {
	if len(votes) == 0 {
		return nil, ErrNoVotes
	}
	return NBestCounts(votes, seats)
}

// WeightedPlurality is Plurality over exact rational tallies, the counting
// stage of systems whose conversions produce fractional scores (Borda-style
// positional voting, split approval).
type WeightedPlurality struct{}

// Evaluate selects seats candidates by descending weight.
func (WeightedPlurality) Evaluate(votes WeightedVotes, seats int) (Selection, error) {
	if len(votes) == 0 {
		return nil, ErrNoVotes
	}
	return NBest(votes, seats)
}
