/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package scan

import (
	"iter"
)

type chainScanner []Scanner

// Chain concatenates the sequences of scanners, in order.
func Chain(scanners ...Scanner) Scanner {
	return chainScanner(scanners)
}

func (c chainScanner) Scan(root string) iter.Seq2[ModelCandidate, error] {
	return func(yield func(ModelCandidate, error) bool) {
		for _, s := range c {
			for candidate, err := range s.Scan(root) {
				if !yield(candidate, err) {
					return
				}
				if err != nil {
					return
				}
			}
		}
	}
}

// Models keeps the valid candidates of seq; errors pass through.
func Models(seq iter.Seq2[ModelCandidate, error]) iter.Seq2[ModelCandidate, error] {
	return func(yield func(ModelCandidate, error) bool) {
		for candidate, err := range seq {
			if err == nil && !candidate.Valid() {
				continue
			}
			if !yield(candidate, err) {
				return
			}
		}
	}
}

// Collect drains seq, stopping at the first error.
func Collect(seq iter.Seq2[ModelCandidate, error]) ([]ModelCandidate, error) {
	var out []ModelCandidate
	for candidate, err := range seq {
		if err != nil {
			return out, err
		}
		out = append(out, candidate)
	}
	return out, nil
}
