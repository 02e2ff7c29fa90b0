package domain

// TargetBlock computes the highest block the next cycle may sync to.
//
// The target stays lag blocks behind the head, never runs more than
// batchSize blocks ahead of the last synced block, and never passes
// endBlock when one is set.
func TargetBlock(currentBlock, lastSynced, lag, batchSize int64, endBlock *int64) int64 {
	target := currentBlock - lag
	if limit := lastSynced + batchSize; target > limit {
		target = limit
	}
	if endBlock != nil && target > *endBlock {
		target = *endBlock
	}
	return target
}

// BlocksToSync is the width of the range (lastSynced, target]. A stale or
// shrinking head yields zero rather than a negative width, so the stream
// never moves backwards.
func BlocksToSync(target, lastSynced int64) int64 {
	if n := target - lastSynced; n > 0 {
		return n
	}
	return 0
}
