// Package cache provides an optional, opt-in memory hierarchy for the
// LOAD/STORE functional units, modeled on Akita's cache directory. It is
// off by default: without WithCache, LOAD/STORE simply take the fixed
// memory-phase latency from timing/latency.Table.
package cache

import (
	akitacache "github.com/sarchlab/akita/v4/mem/cache"
)

// Config holds cache configuration parameters. Sizes are in words, since
// the simulated machine is 16-bit word-addressed throughout.
type Config struct {
	// Size in words.
	Size int
	// Associativity (number of ways).
	Associativity int
	// BlockSize in words (cache line size).
	BlockSize int
	// HitLatency in cycles.
	HitLatency uint64
	// MissLatency in cycles (includes the backing memory access).
	MissLatency uint64
}

// DefaultL1Config returns a small set-associative L1 suitable for the
// simulator's tiny 16-bit address space: 64 words, 4-way, 4-word lines.
func DefaultL1Config() Config {
	return Config{
		Size:          64,
		Associativity: 4,
		BlockSize:     4,
		HitLatency:    1,
		MissLatency:   4,
	}
}

// AccessResult contains the result of a cache access.
type AccessResult struct {
	Hit         bool
	Latency     uint64
	Data        uint16
	Evicted     bool
	EvictedAddr uint16
}

// Cache models an L1 word cache backed by an Akita cache directory for
// tag/state management, with its own flat word data store.
type Cache struct {
	config Config

	directory *akitacache.DirectoryImpl
	dataStore [][]uint16

	stats Statistics

	backing BackingStore
}

// Statistics holds cache performance statistics.
type Statistics struct {
	Reads      uint64
	Writes     uint64
	Hits       uint64
	Misses     uint64
	Evictions  uint64
	Writebacks uint64
}

// BackingStore is the next level in the memory hierarchy: the
// architectural emu.Memory that the cache fetches from on a miss and
// writes back to on a dirty eviction.
type BackingStore interface {
	Read(addr uint16) uint16
	Write(addr uint16, value uint16)
}

// New creates a cache with the given configuration over backing.
func New(config Config, backing BackingStore) *Cache {
	numSets := config.Size / (config.Associativity * config.BlockSize)
	if numSets < 1 {
		numSets = 1
	}
	totalBlocks := numSets * config.Associativity

	dataStore := make([][]uint16, totalBlocks)
	for i := range dataStore {
		dataStore[i] = make([]uint16, config.BlockSize)
	}

	return &Cache{
		config: config,
		directory: akitacache.NewDirectory(
			numSets,
			config.Associativity,
			config.BlockSize,
			akitacache.NewLRUVictimFinder(),
		),
		dataStore: dataStore,
		backing:   backing,
	}
}

// Config returns the cache configuration.
func (c *Cache) Config() Config { return c.config }

// Stats returns cache performance statistics.
func (c *Cache) Stats() Statistics { return c.stats }

// ResetStats clears cache statistics, leaving resident state untouched.
func (c *Cache) ResetStats() { c.stats = Statistics{} }

func (c *Cache) blockAddr(addr uint16) uint64 {
	return uint64(addr) / uint64(c.config.BlockSize) * uint64(c.config.BlockSize)
}

func (c *Cache) blockIndex(block *akitacache.Block) int {
	return block.SetID*c.config.Associativity + block.WayID
}

// Read performs a cache read, fetching from the backing store on a miss.
func (c *Cache) Read(addr uint16) AccessResult {
	c.stats.Reads++

	blockAddr := c.blockAddr(addr)
	block := c.directory.Lookup(0, blockAddr)

	if block != nil && block.IsValid {
		c.stats.Hits++
		c.directory.Visit(block)

		offset := uint64(addr) - blockAddr
		data := c.dataStore[c.blockIndex(block)][offset]

		return AccessResult{Hit: true, Latency: c.config.HitLatency, Data: data}
	}

	c.stats.Misses++
	return c.handleMiss(addr, false, 0)
}

// Write performs a cache write, using write-allocate: a miss first fetches
// the line from the backing store, then the write lands in the cache.
func (c *Cache) Write(addr uint16, value uint16) AccessResult {
	c.stats.Writes++

	blockAddr := c.blockAddr(addr)
	block := c.directory.Lookup(0, blockAddr)

	if block != nil && block.IsValid {
		c.stats.Hits++
		c.directory.Visit(block)

		offset := uint64(addr) - blockAddr
		c.dataStore[c.blockIndex(block)][offset] = value
		block.IsDirty = true

		return AccessResult{Hit: true, Latency: c.config.HitLatency}
	}

	c.stats.Misses++
	return c.handleMiss(addr, true, value)
}

func (c *Cache) handleMiss(addr uint16, isWrite bool, writeValue uint16) AccessResult {
	result := AccessResult{Hit: false, Latency: c.config.MissLatency}

	blockAddr := c.blockAddr(addr)
	victim := c.directory.FindVictim(blockAddr)
	if victim == nil {
		return result
	}

	victimData := c.dataStore[c.blockIndex(victim)]

	if victim.IsValid {
		c.stats.Evictions++
		result.Evicted = true
		result.EvictedAddr = uint16(victim.Tag)

		if victim.IsDirty && c.backing != nil {
			c.stats.Writebacks++
			for i, word := range victimData {
				c.backing.Write(uint16(victim.Tag)+uint16(i), word)
			}
		}
	}

	if c.backing != nil {
		for i := range victimData {
			victimData[i] = c.backing.Read(uint16(blockAddr) + uint16(i))
		}
	} else {
		for i := range victimData {
			victimData[i] = 0
		}
	}

	victim.Tag = blockAddr
	victim.IsValid = true
	victim.IsDirty = false

	offset := uint64(addr) - blockAddr
	if isWrite {
		victimData[offset] = writeValue
		victim.IsDirty = true
	} else {
		result.Data = victimData[offset]
	}

	c.directory.Visit(victim)
	return result
}

// Invalidate marks the line holding addr as invalid, dropping its data
// without writeback.
func (c *Cache) Invalidate(addr uint16) {
	blockAddr := c.blockAddr(addr)
	block := c.directory.Lookup(0, blockAddr)
	if block != nil && block.IsValid {
		block.IsValid = false
		block.IsDirty = false
	}
}

// Flush writes back every dirty line and invalidates the whole cache.
func (c *Cache) Flush() {
	for _, set := range c.directory.GetSets() {
		for _, block := range set.Blocks {
			if block.IsValid && block.IsDirty && c.backing != nil {
				blockData := c.dataStore[c.blockIndex(block)]
				for i, word := range blockData {
					c.backing.Write(uint16(block.Tag)+uint16(i), word)
				}
				c.stats.Writebacks++
			}
			block.IsValid = false
			block.IsDirty = false
		}
	}
}

// Reset invalidates the cache and clears statistics without writeback.
func (c *Cache) Reset() {
	c.directory.Reset()
	c.stats = Statistics{}
}

// AccessLatency implements fu.MemoryTimer: it drives the cache's hit/miss
// and LRU state machine for addr and returns the latency it took,
// enriching the fixed memory-phase figure from timing/latency.Table. The
// cache's own dataStore is a timing fiction only: the store's actual
// value is committed straight to emu.Memory by the write-back stage, so
// Write is driven with a placeholder value here and the line is left
// clean, so that an eviction never writes the placeholder back.
func (c *Cache) AccessLatency(addr uint16, isWrite bool) uint64 {
	if isWrite {
		res := c.Write(addr, 0)
		if block := c.directory.Lookup(0, c.blockAddr(addr)); block != nil {
			block.IsDirty = false
		}
		return res.Latency
	}
	return c.Read(addr).Latency
}
