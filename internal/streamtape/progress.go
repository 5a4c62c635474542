package streamtape

import "io"

// progressReader wraps the relay body and reports cumulative bytes sent.
// The count only ever grows, so observations stay monotonic.
type progressReader struct {
	r       io.Reader
	total   int64
	current int64
	fn      ProgressFunc
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.current += int64(n)
		p.fn(p.current, p.total)
	}
	return n, err
}
