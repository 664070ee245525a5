package netutil

import (
	"io"
	"testing"
)

func TestPipeListenerDialAccept(t *testing.T) {
	var l PipeListener
	defer l.Close()

	serverSide := make(chan error, 1)
	go func() {
		c, err := l.Accept()
		if err != nil {
			serverSide <- err
			return
		}
		defer c.Close()
		buf := make([]byte, 5)
		if _, err := io.ReadFull(c, buf); err != nil {
			serverSide <- err
			return
		}
		if string(buf) != "hello" {
			serverSide <- io.ErrUnexpectedEOF
			return
		}
		serverSide <- nil
	}()

	client, err := l.Dial()
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer client.Close()
	if _, err := client.Write([]byte("hello")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := <-serverSide; err != nil {
		t.Fatalf("server side: %v", err)
	}
}

func TestPipeListenerCloseUnblocksAccept(t *testing.T) {
	var l PipeListener
	done := make(chan error, 1)
	go func() {
		_, err := l.Accept()
		done <- err
	}()
	l.Close()
	if err := <-done; err != errClosed {
		t.Errorf("Accept after Close = %v, want errClosed", err)
	}
}

func TestPipeListenerDialAfterCloseFails(t *testing.T) {
	var l PipeListener
	l.Close()
	if _, err := l.Dial(); err != errClosed {
		t.Errorf("Dial after Close = %v, want errClosed", err)
	}
}

func TestPipeListenerAddr(t *testing.T) {
	var l PipeListener
	defer l.Close()
	if l.Addr().Network() != "pipe" {
		t.Errorf("Addr().Network() = %q, want %q", l.Addr().Network(), "pipe")
	}
}
