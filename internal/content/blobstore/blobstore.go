// Package blobstore is the private, not-externally-stable column store
// backing one hot or cold arena's blob payloads: a column of (cid, bytes)
// pairs. The builder streams batches through a self-describing Arrow IPC
// file while the row count is still open-ended; once finalized, the rows
// are laid out in a fixed column format (cids, then blob offsets, then
// packed blob bytes) and served by row index straight out of a memory-mapped
// view of that layout, so Resolve aliases the mapping instead of copying.
//
// This is intentionally not the same format as the Cold arena's stable
// Parquet export (see content.Cold.Export) — this one is a private
// implementation detail of one process's temp directory and may change
// shape between releases.
//
// © 2025 feedline authors. MIT License.
package blobstore

import (
	"encoding/binary"
	"fmt"
	"os"
	"unsafe"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/edsrzf/mmap-go"
)

// schema is shared by every blob file this package writes: {cid: u64
// non-null, blob: binary non-null}.
var schema = arrow.NewSchema([]arrow.Field{
	{Name: "cid", Type: arrow.PrimitiveTypes.Uint64, Nullable: false},
	{Name: "blob", Type: arrow.BinaryTypes.Binary, Nullable: false},
}, nil)

// Builder streams (cid, blob) batches into a private temp file using the IPC
// file format, then finalizes into a read-only Store via one of
// BuildPresorted or BuildAndSort.
type Builder struct {
	alloc   memory.Allocator
	file    *os.File
	writer  *ipc.FileWriter
	path    string
	batches int
	closed  bool
}

// NewBuilder creates the backing temp file and opens an IPC writer over it.
func NewBuilder() (*Builder, error) {
	f, err := os.CreateTemp("", "feedline-blobs-*.arrow")
	if err != nil {
		return nil, fmt.Errorf("blobstore: create temp file: %w", err)
	}
	alloc := memory.NewGoAllocator()
	w, err := ipc.NewFileWriter(f, ipc.WithSchema(schema), ipc.WithAllocator(alloc))
	if err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, fmt.Errorf("blobstore: open ipc writer: %w", err)
	}
	return &Builder{alloc: alloc, file: f, writer: w, path: f.Name()}, nil
}

// Append writes one record batch of cid/blob pairs. cids and blobs must be
// the same length.
func (b *Builder) Append(cids []uint64, blobs [][]byte) error {
	if len(cids) != len(blobs) {
		return fmt.Errorf("blobstore: append: mismatched column lengths %d/%d", len(cids), len(blobs))
	}
	if len(cids) == 0 {
		return nil
	}
	cidBuilder := array.NewUint64Builder(b.alloc)
	defer cidBuilder.Release()
	cidBuilder.AppendValues(cids, nil)

	blobBuilder := array.NewBinaryBuilder(b.alloc, arrow.BinaryTypes.Binary)
	defer blobBuilder.Release()
	for _, bl := range blobs {
		blobBuilder.Append(bl)
	}

	cidArr := cidBuilder.NewUint64Array()
	defer cidArr.Release()
	blobArr := blobBuilder.NewBinaryArray()
	defer blobArr.Release()

	rec := array.NewRecord(schema, []arrow.Array{cidArr, blobArr}, int64(len(cids)))
	defer rec.Release()

	if err := b.writer.Write(rec); err != nil {
		return fmt.Errorf("blobstore: write batch: %w", err)
	}
	b.batches++
	return nil
}

func (b *Builder) finalize() error {
	if b.closed {
		return nil
	}
	b.closed = true
	if err := b.writer.Close(); err != nil {
		return fmt.Errorf("blobstore: close ipc writer: %w", err)
	}
	return nil
}

func (b *Builder) abandon() {
	if !b.closed {
		b.closed = true
		b.writer.Close()
	}
	b.file.Close()
	os.Remove(b.path)
}

// BuildPresorted finalizes the builder assuming the rows already appear in
// the desired final order. The appended batches (whether one or many) are
// flattened and rewritten into the Store's fixed column layout.
func (b *Builder) BuildPresorted() (*Store, error) {
	if err := b.finalize(); err != nil {
		b.abandon()
		return nil, err
	}
	cids, blobs, err := readAll(b.file, b.path, b.alloc)
	if err != nil {
		b.abandon()
		return nil, err
	}
	b.file.Close()
	os.Remove(b.path)
	return writeStore(cids, blobs)
}

// BuildAndSort finalizes the builder by permuting physical row index perm[i]
// into logical position i, writing the rows in that order into the Store's
// fixed column layout. An empty perm yields an empty Store.
func (b *Builder) BuildAndSort(perm []int) (*Store, error) {
	if err := b.finalize(); err != nil {
		b.abandon()
		return nil, err
	}
	cids, blobs, err := readAll(b.file, b.path, b.alloc)
	if err != nil {
		b.abandon()
		return nil, err
	}
	b.file.Close()
	os.Remove(b.path)

	sortedCids := make([]uint64, len(perm))
	sortedBlobs := make([][]byte, len(perm))
	for i, p := range perm {
		sortedCids[i] = cids[p]
		sortedBlobs[i] = blobs[p]
	}
	return writeStore(sortedCids, sortedBlobs)
}

// readAll reads every record batch out of the file written so far and
// flattens them into plain Go columns, read through the IPC file reader
// rather than a memory map. Both BuildAndSort and BuildPresorted (whether one
// batch or many was appended) use it.
func readAll(f *os.File, path string, alloc memory.Allocator) ([]uint64, [][]byte, error) {
	if _, err := f.Seek(0, 0); err != nil {
		return nil, nil, fmt.Errorf("blobstore: seek: %w", err)
	}
	r, err := ipc.NewFileReader(f, ipc.WithAllocator(alloc))
	if err != nil {
		return nil, nil, fmt.Errorf("blobstore: open ipc reader: %w", err)
	}
	defer r.Close()

	var cids []uint64
	var blobs [][]byte
	for i := 0; i < r.NumRecords(); i++ {
		rec, err := r.Record(i)
		if err != nil {
			return nil, nil, fmt.Errorf("blobstore: read batch %d: %w", i, err)
		}
		cidCol, ok := rec.Column(0).(*array.Uint64)
		if !ok {
			return nil, nil, fmt.Errorf("blobstore: %w: cid column is not uint64", ErrSchemaMismatch)
		}
		blobCol, ok := rec.Column(1).(*array.Binary)
		if !ok {
			return nil, nil, fmt.Errorf("blobstore: %w: blob column is not binary", ErrSchemaMismatch)
		}
		for j := 0; j < int(rec.NumRows()); j++ {
			cids = append(cids, cidCol.Value(j))
			v := blobCol.Value(j)
			cp := make([]byte, len(v))
			copy(cp, v)
			blobs = append(blobs, cp)
		}
	}
	return cids, blobs, nil
}

// storeMagic tags the fixed column layout writeStore produces, so openStore
// can refuse to mmap anything else.
const storeMagic = "FBS1"

// storeHeaderSize is magic(4) + pad(4) + row count(8), kept a multiple of 8
// so every column that follows starts 8-byte aligned within the mapping.
const storeHeaderSize = 16

// writeStore lays cids/blobs out as one fixed column file — header, cid
// column, blob offset column (n+1 cumulative byte offsets), then the packed
// blob bytes — and opens a Store by memory-mapping the result. Every
// finalized Store takes this one on-disk shape, whether it came from a
// single appended batch or from concatenating/permuting several.
func writeStore(cids []uint64, blobs [][]byte) (*Store, error) {
	n := len(cids)
	offsets := make([]uint64, n+1)
	var total uint64
	for i, bl := range blobs {
		offsets[i] = total
		total += uint64(len(bl))
	}
	offsets[n] = total

	cidOff := storeHeaderSize
	offOff := cidOff + n*8
	dataOff := offOff + (n+1)*8
	buf := make([]byte, dataOff+int(total))

	copy(buf[0:4], storeMagic)
	binary.LittleEndian.PutUint64(buf[8:16], uint64(n))
	// cids/offsets are written in native byte order via the same unsafe
	// reinterpretation openStore uses to read them back, so the two sides
	// never disagree about endianness.
	copy(unsafe.Slice((*uint64)(unsafe.Pointer(&buf[cidOff])), n), cids)
	copy(unsafe.Slice((*uint64)(unsafe.Pointer(&buf[offOff])), n+1), offsets)
	for i, bl := range blobs {
		copy(buf[dataOff+int(offsets[i]):dataOff+int(offsets[i+1])], bl)
	}

	f, err := os.CreateTemp("", "feedline-blobs-*.fbs")
	if err != nil {
		return nil, fmt.Errorf("blobstore: create temp file: %w", err)
	}
	if _, err := f.Write(buf); err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, fmt.Errorf("blobstore: write store: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, fmt.Errorf("blobstore: flush store: %w", err)
	}
	return openStore(f, f.Name())
}

// Store is a finalized, read-only blob column: a memory-mapped fixed-layout
// file whose cid, offset, and blob-byte columns are all views into the
// mapping itself — Resolve never copies, it aliases.
type Store struct {
	file    *os.File
	mm      mmap.MMap
	n       int
	cids    []uint64
	offsets []uint64
	data    []byte
}

func openStore(f *os.File, path string) (*Store, error) {
	mm, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("blobstore: mmap: %w", err)
	}
	// The file is unlinked immediately; the still-open descriptor (and its
	// mapping) keeps the data alive until Close, mirroring the original's
	// drop-on-last-reference temp file semantics.
	os.Remove(path)

	if len(mm) < storeHeaderSize || string(mm[0:4]) != storeMagic {
		mm.Unmap()
		f.Close()
		return nil, fmt.Errorf("blobstore: %w: bad store header", ErrSchemaMismatch)
	}
	n := int(binary.LittleEndian.Uint64(mm[8:16]))
	cidOff := storeHeaderSize
	offOff := cidOff + n*8
	dataOff := offOff + (n+1)*8
	if len(mm) < dataOff {
		mm.Unmap()
		f.Close()
		return nil, fmt.Errorf("blobstore: %w: truncated store", ErrSchemaMismatch)
	}

	return &Store{
		file:    f,
		mm:      mm,
		n:       n,
		cids:    unsafe.Slice((*uint64)(unsafe.Pointer(&mm[cidOff])), n),
		offsets: unsafe.Slice((*uint64)(unsafe.Pointer(&mm[offOff])), n+1),
		data:    mm[dataOff:],
	}, nil
}

// Len returns the number of rows in the store.
func (s *Store) Len() int { return s.n }

// IsEmpty reports whether the store holds zero rows.
func (s *Store) IsEmpty() bool { return s.n == 0 }

// Resolve returns the (cid, blob) pair at row index idx. The returned slice
// aliases the store's memory map and is valid as long as the store is open.
func (s *Store) Resolve(idx int) (uint64, []byte) {
	return s.cids[idx], s.data[s.offsets[idx]:s.offsets[idx+1]]
}

// DiskBytes reports the on-disk footprint of the backing file.
func (s *Store) DiskBytes() int64 {
	if s.file == nil {
		return 0
	}
	info, err := s.file.Stat()
	if err != nil {
		return 0
	}
	return info.Size()
}

// Close unmaps and closes the backing file. The file was already unlinked at
// build time, so this frees the last reference to its disk space.
func (s *Store) Close() error {
	var err error
	if s.mm != nil {
		err = s.mm.Unmap()
	}
	if s.file != nil {
		if cerr := s.file.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
