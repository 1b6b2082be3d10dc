package store

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"lemterrain/internal/mesh"
	"lemterrain/internal/surface"
)

// ErrCorrupt is returned when a stored record cannot be decoded.
var ErrCorrupt = errors.New("store: corrupt record")

var magic = [4]byte{'L', 'E', 'M', 'T'}

const codecVersion = 1

// Encode serialises the surface and its mesh.
func Encode(s *surface.Surface) []byte {
	m := s.Mesh()
	sites, tris, boundary := m.Sites(), m.Triangles(), m.Boundary()
	size := 4 + 2 + 12 + len(sites)*24 + len(tris)*12 + len(boundary)*4
	buf := make([]byte, 0, size)
	buf = append(buf, magic[:]...)
	buf = binary.LittleEndian.AppendUint16(buf, codecVersion)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(sites)))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(tris)))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(boundary)))
	for _, p := range sites {
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(p.X()))
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(p.Y()))
	}
	for _, tr := range tris {
		for _, v := range tr {
			buf = binary.LittleEndian.AppendUint32(buf, uint32(v))
		}
	}
	for _, b := range boundary {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(b))
	}
	for _, e := range s.Elevations() {
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(e))
	}
	return buf
}

type reader struct {
	buf []byte
	err error
}

func (r *reader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if len(r.buf) < n {
		r.err = fmt.Errorf("%w: truncated", ErrCorrupt)
		return nil
	}
	b := r.buf[:n]
	r.buf = r.buf[n:]
	return b
}

func (r *reader) u16() uint16 {
	if b := r.take(2); b != nil {
		return binary.LittleEndian.Uint16(b)
	}
	return 0
}

func (r *reader) u32() uint32 {
	if b := r.take(4); b != nil {
		return binary.LittleEndian.Uint32(b)
	}
	return 0
}

func (r *reader) f64() float64 {
	if b := r.take(8); b != nil {
		return math.Float64frombits(binary.LittleEndian.Uint64(b))
	}
	return 0
}

// Decode rebuilds a surface written by Encode.
func Decode(data []byte) (*surface.Surface, error) {
	r := &reader{buf: data}
	if head := r.take(4); head == nil || [4]byte(head) != magic {
		return nil, fmt.Errorf("%w: bad magic", ErrCorrupt)
	}
	if v := r.u16(); v != codecVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrCorrupt, v)
	}
	nSites, nTris, nBoundary := int(r.u32()), int(r.u32()), int(r.u32())
	if r.err != nil {
		return nil, r.err
	}
	if want := nSites*24 + nTris*12 + nBoundary*4; len(r.buf) != want {
		return nil, fmt.Errorf("%w: %d payload bytes, want %d", ErrCorrupt, len(r.buf), want)
	}

	sites := make([]mesh.Site, nSites)
	for i := range sites {
		sites[i] = mesh.Site{r.f64(), r.f64()}
	}
	tris := make([][3]int, nTris)
	for i := range tris {
		tris[i] = [3]int{int(r.u32()), int(r.u32()), int(r.u32())}
	}
	boundary := make([]int, nBoundary)
	for i := range boundary {
		boundary[i] = int(r.u32())
	}
	elev := make([]float64, nSites)
	for i := range elev {
		elev[i] = r.f64()
	}
	if r.err != nil {
		return nil, r.err
	}

	m, err := mesh.FromParts(sites, tris, boundary)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return surface.New(m, elev)
}
