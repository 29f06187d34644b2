package gdb

import (
	"os"
	"testing"
)

func TestReadProcComm(t *testing.T) {
	comm, err := ReadProcComm(os.Getpid())
	if err != nil {
		t.Fatal(err)
	}
	if comm == "" {
		t.Error("empty command name for the current process")
	}
}

func TestReadProcCommArgs(t *testing.T) {
	if _, err := ReadProcCommArgs(os.Getpid()); err != nil {
		t.Fatal(err)
	}
}
