package trace

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
)

var (
	ErrNoSegment = errors.New("trace: no segment file open")
)

// Sink 跟踪文本的输出目标。
type Sink interface {
	io.Writer
	Flush() error
	Close() error
}

// streamSink 缓冲写入一个不归报告器所有的流，Close 只刷新。
type streamSink struct{ *bufio.Writer }

func newStreamSink(w io.Writer) *streamSink {
	return &streamSink{bufio.NewWriter(w)}
}

func (s *streamSink) Close() error { return s.Flush() }

// fileSink 报告器打开的分段文件，Close 刷新并关闭文件。
type fileSink struct {
	*bufio.Writer
	file *os.File
}

func createFileSink(name string) (*fileSink, error) {
	f, err := os.Create(name)
	if err != nil {
		return nil, err
	}
	return &fileSink{Writer: bufio.NewWriter(f), file: f}, nil
}

func (s *fileSink) Close() error {
	err := s.Flush()
	if cerr := s.file.Close(); err == nil {
		err = cerr
	}
	return err
}

// segmentName 返回分段文件名 <base>_NNNN.trc。
func segmentName(base string, seq int) string {
	return fmt.Sprintf("%s_%04d.trc", base, seq%10000)
}
