package world

import "sync/atomic"

// ObjectIDGenerator generates unique object IDs for spawned entities.
//
// ID ranges (convention):
//
//	0x00000000 - 0x0FFFFFFF: Reserved (0 = invalid)
//	0x20000000 - 0x2FFFFFFF: Enemies
type ObjectIDGenerator struct {
	nextEnemyID atomic.Uint32
}

// NewObjectIDGenerator creates a new ID generator.
func NewObjectIDGenerator() *ObjectIDGenerator {
	gen := &ObjectIDGenerator{}
	gen.nextEnemyID.Store(0x20000000)
	return gen
}

// NextEnemyID generates next unique enemy object ID.
// Thread-safe via atomic increment.
func (g *ObjectIDGenerator) NextEnemyID() uint32 {
	return g.nextEnemyID.Add(1)
}
