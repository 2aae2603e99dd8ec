// Copyright 2024 The ReadySet Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package wire

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"io"

	"github.com/pkg/errors"
)

// maxFrameSize guards against a corrupt or malicious length prefix
// forcing an unbounded allocation.
const maxFrameSize = 64 << 20

// ErrFrameTooLarge is returned by FrameReader when a length prefix
// exceeds maxFrameSize.
var ErrFrameTooLarge = errors.New("wire: frame exceeds maximum size")

// FrameWriter writes length-prefixed, gob-encoded values to an
// underlying io.Writer. One FrameWriter is owned by exactly one shard
// connection; it is not safe for concurrent use.
type FrameWriter struct {
	w io.Writer
}

// NewFrameWriter wraps w.
func NewFrameWriter(w io.Writer) *FrameWriter {
	return &FrameWriter{w: w}
}

// WriteInput gob-encodes in and writes it as a single length-prefixed
// frame.
func (fw *FrameWriter) WriteInput(in Input) error {
	return fw.writeFrame(in)
}

// WriteAck gob-encodes ack and writes it as a single length-prefixed
// frame.
func (fw *FrameWriter) WriteAck(ack Ack) error {
	return fw.writeFrame(ack)
}

func (fw *FrameWriter) writeFrame(v interface{}) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return errors.Wrap(err, "wire: encoding frame")
	}
	var lenPrefix [4]byte
	binary.BigEndian.PutUint32(lenPrefix[:], uint32(buf.Len()))
	if _, err := fw.w.Write(lenPrefix[:]); err != nil {
		return errors.WithStack(err)
	}
	if _, err := fw.w.Write(buf.Bytes()); err != nil {
		return errors.WithStack(err)
	}
	return nil
}

// FrameReader reads length-prefixed, gob-encoded values from an
// underlying io.Reader. Not safe for concurrent use.
type FrameReader struct {
	r io.Reader
}

// NewFrameReader wraps r.
func NewFrameReader(r io.Reader) *FrameReader {
	return &FrameReader{r: r}
}

// ReadInput reads one frame and decodes it as an Input.
func (fr *FrameReader) ReadInput() (Input, error) {
	var in Input
	err := fr.readFrame(&in)
	return in, err
}

// ReadAck reads one frame and decodes it as an Ack.
func (fr *FrameReader) ReadAck() (Ack, error) {
	var ack Ack
	err := fr.readFrame(&ack)
	return ack, err
}

func (fr *FrameReader) readFrame(v interface{}) error {
	var lenPrefix [4]byte
	if _, err := io.ReadFull(fr.r, lenPrefix[:]); err != nil {
		return errors.WithStack(err)
	}
	n := binary.BigEndian.Uint32(lenPrefix[:])
	if n > maxFrameSize {
		return ErrFrameTooLarge
	}
	payload := make([]byte, n)
	if _, err := io.ReadFull(fr.r, payload); err != nil {
		return errors.WithStack(err)
	}
	if err := gob.NewDecoder(bytes.NewReader(payload)).Decode(v); err != nil {
		return errors.Wrap(err, "wire: decoding frame")
	}
	return nil
}
