package worldgen

import "github.com/vovakirdan/tui-strategy/internal/theme"

// bucketThresholds partitions the [0, 1] noise range into contiguous
// half-open buckets. A sample in bucket N maps to the Nth terrain entry
// in theme order; samples >= the last threshold fall into the else
// bucket.
var bucketThresholds = [...]float64{0.3, 0.5, 0.65, 0.8}

// BucketCount is the number of terrain buckets the classifier produces.
const BucketCount = len(bucketThresholds) + 1

// Classify maps a noise sample to a terrain class of the active theme.
// Themes with fewer terrain entries than buckets clamp to their last
// entry rather than indexing out of range.
func Classify(sample float64, th theme.Descriptor) theme.TerrainClass {
	bucket := len(bucketThresholds)
	for i, limit := range bucketThresholds {
		if sample < limit {
			bucket = i
			break
		}
	}
	return th.Terrain(bucket)
}
