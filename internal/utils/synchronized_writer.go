package utils

import (
	"io"
	"sync"
)

// SynchronizedWriter serializes writes coming from concurrent output streams and flushes
// the destination after each write when it supports flushing.
type SynchronizedWriter struct {
	writer io.Writer
	mutex  *sync.Mutex
}

// NewSynchronizedWriters wraps every writer with one shared lock so that interleaved
// standard output and standard error never split a single write.
func NewSynchronizedWriters(writers ...io.Writer) []io.Writer {
	sharedMutex := &sync.Mutex{}
	wrapped := make([]io.Writer, 0, len(writers))
	for _, writer := range writers {
		if writer == nil {
			writer = io.Discard
		}
		wrapped = append(wrapped, &SynchronizedWriter{writer: writer, mutex: sharedMutex})
	}
	if len(wrapped) == 0 {
		wrapped = append(wrapped, &SynchronizedWriter{writer: io.Discard, mutex: sharedMutex})
	}
	return wrapped
}

// Write delegates to the underlying writer and flushes it when possible.
func (synchronizedWriter *SynchronizedWriter) Write(data []byte) (int, error) {
	synchronizedWriter.mutex.Lock()
	defer synchronizedWriter.mutex.Unlock()

	bytesWritten, writeError := synchronizedWriter.writer.Write(data)
	if writeError != nil {
		return bytesWritten, writeError
	}

	if flushableWriter, implementsFlush := synchronizedWriter.writer.(interface{ Flush() error }); implementsFlush {
		if flushError := flushableWriter.Flush(); flushError != nil {
			return bytesWritten, flushError
		}
	}

	return bytesWritten, nil
}
