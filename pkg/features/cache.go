package features

// Cache memoizes one integer feature extraction. Extraction is expensive and
// several matcher passes need the same vectors within one classification
// call, so the first request computes and later requests are served from the
// slot until Invalidate is called.
//
// The slot is keyed by call sequence, not by blob identity: callers MUST
// invalidate before presenting a different blob. This mirrors the cooperative
// single-threaded execution model; there is no internal retry.
type Cache struct {
	extractor Extractor
	result    IntResult
	valid     bool
}

// NewCache wraps an extractor with a single-slot cache.
func NewCache(extractor Extractor) *Cache {
	return &Cache{extractor: extractor}
}

// IntFeatures returns the integer feature extraction for the blob, computing
// it on the first call after an Invalidate.
func (c *Cache) IntFeatures(b Blob) IntResult {
	if !c.valid {
		c.result = c.extractor.ExtractIntFeatures(b)
		c.valid = true
	}
	return c.result
}

// Invalidate clears the slot. Must be called before classifying or learning
// a different blob, including around re-entrant classification calls.
func (c *Cache) Invalidate() {
	c.valid = false
	c.result = IntResult{}
}

// Extractor exposes the wrapped extractor for the non-cached extraction
// paths (outline and pico features).
func (c *Cache) Extractor() Extractor {
	return c.extractor
}
