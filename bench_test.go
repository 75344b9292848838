// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jstream_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/creachadair/jstream"
)

func benchInput() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i := 0; i < 1000; i++ {
		if i > 0 {
			sb.WriteByte(',')
		}
		fmt.Fprintf(&sb, `{"id":%d,"name":"item-%d","ok":%v,"score":%d.%02d}`,
			i, i, i%2 == 0, i%50, i%100)
	}
	sb.WriteByte(']')
	return sb.String()
}

func BenchmarkReader(b *testing.B) {
	input := []byte(benchInput())
	b.Logf("Benchmark input: %d bytes", len(input))

	b.Run("Decoder", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			dec := json.NewDecoder(bytes.NewReader(input))
			for {
				_, err := dec.Token()
				if err == io.EOF {
					break
				} else if err != nil {
					b.Fatalf("Unexpected error: %v", err)
				}
			}
		}
	})

	b.Run("Reader", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			r := jstream.NewReader(bytes.NewReader(input))
			lst := r.Begin().List()
			for lst.Next() {
				obj := lst.Value().Object()
				for obj.Next() {
					// Touch each payload, as the Decoder loop above does.
					p := obj.Property()
					switch p.Kind() {
					case jstream.KindInt:
						p.Int()
					case jstream.KindDecimal:
						p.Number()
					case jstream.KindString:
						p.TextRO()
					case jstream.KindBool:
						p.Bool()
					}
				}
			}
			if err := r.End(); err != nil {
				b.Fatalf("Unexpected error: %v", err)
			}
		}
	})
}
