// Copyright (c) 2021 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

import (
	"bytes"
	"sync"

	"github.com/syndtr/goleveldb/leveldb/util"
)

// Bucket provides logical bucket for kv store.
type Bucket string

func (b Bucket) makeKey(buf []byte, key []byte) []byte {
	return append(append(buf[:0], b...), key...)
}

// NewGetter creates a bucket getter from the source getter.
func (b Bucket) NewGetter(src Getter) Getter {
	return &struct {
		GetFunc
		HasFunc
		IsNotFoundFunc
	}{
		func(key []byte) ([]byte, error) {
			buf := bufPool.Get().(*buf)
			defer bufPool.Put(buf)
			buf.k = b.makeKey(buf.k, key)

			return src.Get(buf.k)
		},
		func(key []byte) (bool, error) {
			buf := bufPool.Get().(*buf)
			defer bufPool.Put(buf)
			buf.k = b.makeKey(buf.k, key)

			return src.Has(buf.k)
		},
		src.IsNotFound,
	}
}

// NewPutter creates a bucket putter from the source putter.
func (b Bucket) NewPutter(src Putter) Putter {
	return &struct {
		PutFunc
		DeleteFunc
	}{
		func(key, val []byte) error {
			buf := bufPool.Get().(*buf)
			defer bufPool.Put(buf)
			buf.k = b.makeKey(buf.k, key)

			return src.Put(buf.k, val)
		},
		func(key []byte) error {
			buf := bufPool.Get().(*buf)
			defer bufPool.Put(buf)
			buf.k = b.makeKey(buf.k, key)

			return src.Delete(buf.k)
		},
	}
}

// NewBulk creates a bucket bulk from the source bulk.
func (b Bucket) NewBulk(src Bulk) Bulk {
	putter := b.NewPutter(src)
	return &struct {
		Putter
		LenFunc
		WriteFunc
	}{
		putter,
		src.Len,
		src.Write,
	}
}

// NewStore creates a bucket store from the source store.
func (b Bucket) NewStore(src Store) Store {
	return &struct {
		Getter
		Putter
		BulkFunc
		IterateFunc
	}{
		b.NewGetter(src),
		b.NewPutter(src),
		func() Bulk {
			return b.NewBulk(src.Bulk())
		},
		func(r Range, fn func(Pair) bool) error {
			rng := util.BytesPrefix([]byte(b))
			if len(r.Start) > 0 {
				rng.Start = b.makeKey(nil, r.Start)
			}
			if len(r.Limit) > 0 {
				rng.Limit = b.makeKey(nil, r.Limit)
			}
			return src.Iterate(Range{Start: rng.Start, Limit: rng.Limit}, func(pair Pair) bool {
				key := pair.Key()
				if !bytes.HasPrefix(key, []byte(b)) {
					return true
				}
				return fn(&struct {
					KeyFunc
					ValueFunc
				}{
					func() []byte { return key[len(b):] },
					pair.Value,
				})
			})
		},
	}
}

type buf struct {
	k []byte
}

var bufPool = sync.Pool{
	New: func() any {
		return &buf{}
	},
}
