// Package lock はキー単位の書き込み直列化を提供します。
package lock

import (
	"context"
	"hash/fnv"
	"sync"
)

// DefaultShards は Sharded のデフォルトのシャード数です。
const DefaultShards = 64

// Sharded はキーをハッシュで固定数のシャードに割り当て、プロセス内で直列化します。
// 異なるキーが同じシャードに割り当てられた場合も直列化されます。
type Sharded struct {
	shards []chan struct{}
}

// NewSharded は n 個のシャードを持つ Sharded を生成します。
func NewSharded(n int) *Sharded {
	if n <= 0 {
		n = DefaultShards
	}
	shards := make([]chan struct{}, n)
	for i := range shards {
		shards[i] = make(chan struct{}, 1)
	}
	return &Sharded{shards: shards}
}

// Lock は key のシャードを取得するまで待機します。ctx がキャンセルされた場合は ctx.Err() を返します。
func (s *Sharded) Lock(ctx context.Context, key string) (func(), error) {
	shard := s.shards[s.index(key)]

	select {
	case shard <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() { <-shard })
	}, nil
}

func (s *Sharded) index(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(s.shards)))
}
