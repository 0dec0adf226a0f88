package listing

// MaxBatchSize is the largest number of ISINs sent in one mapping request
const MaxBatchSize = 100

// Batch is an ordered group of ISINs submitted together
type Batch []string

// SplitBatches cuts isins into consecutive batches of at most size elements,
// preserving order. A non-positive size falls back to MaxBatchSize.
func SplitBatches(isins []string, size int) []Batch {
	if size <= 0 || size > MaxBatchSize {
		size = MaxBatchSize
	}
	batches := make([]Batch, 0, (len(isins)+size-1)/size)
	for start := 0; start < len(isins); start += size {
		end := min(start+size, len(isins))
		batch := make(Batch, end-start)
		copy(batch, isins[start:end])
		batches = append(batches, batch)
	}
	return batches
}
