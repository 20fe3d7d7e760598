package errs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBadPathWrapsUnderlyingError(t *testing.T) {
	underlying := errors.New("contains a colon")
	err := &BadPath{Path: "/a:b", Err: underlying}

	assert.Equal(t, `bad path "/a:b": contains a colon`, err.Error())
	assert.True(t, errors.Is(err, underlying))
}

func TestKindOfRoundTrip(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		kind Kind
	}{
		{"bad_path", &BadPath{Path: "/x"}, KindBadPath},
		{"bad_arg", &BadArg{Msg: "nil path"}, KindBadArg},
		{"not_found", &NotFound{Msg: "/x"}, KindNotFound},
		{"illegal_state", &IllegalState{Msg: "no storage servers"}, KindIllegalState},
		{"out_of_range", &OutOfRange{Msg: "offset > size"}, KindOutOfRange},
		{"stopped", &Stopped{Path: "/x"}, KindStopped},
		{"transport_failure", &TransportFailure{Op: "delete", Err: errors.New("dial refused")}, KindTransportFailure},
		{"internal", &Internal{Msg: "replica set empty"}, KindInternal},
		{"unrecognized", errors.New("plain error"), KindNone},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.kind, KindOf(tc.err))
		})
	}
}

func TestFromKindReconstructsTypedError(t *testing.T) {
	err := FromKind(KindNotFound, "/a/b")
	var nf *NotFound
	assert.True(t, errors.As(err, &nf))
	assert.Equal(t, "/a/b", nf.Msg)
}

func TestFromKindNoneWithEmptyMessageIsNil(t *testing.T) {
	assert.Nil(t, FromKind(KindNone, ""))
}
