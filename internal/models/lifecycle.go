package models

// canAdvance implements the shared status policy of orders and Dubai requests:
// a record may move to the immediate successor in flow, or to cancelled from
// any non-terminal state. Staying in the same state is allowed.
func canAdvance[S comparable](flow []S, cancelled, from, to S) bool {
	if from == to {
		return true
	}
	if terminal(flow, cancelled, from) {
		return false
	}
	if to == cancelled {
		return true
	}
	for i := 0; i < len(flow)-1; i++ {
		if flow[i] == from {
			return flow[i+1] == to
		}
	}
	return false
}

func terminal[S comparable](flow []S, cancelled, s S) bool {
	return s == cancelled || (len(flow) > 0 && s == flow[len(flow)-1])
}

func known[S comparable](flow []S, cancelled, s S) bool {
	if s == cancelled {
		return true
	}
	for _, f := range flow {
		if f == s {
			return true
		}
	}
	return false
}
