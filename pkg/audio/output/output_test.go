// ABOUTME: Output platform tests
// ABOUTME: Verifies negotiation errors, backend selection and null stream semantics
package output

import (
	"errors"
	"testing"

	"github.com/Resonate-Protocol/resonate-play/pkg/audio"
	"github.com/gen2brain/malgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var stereo16 = audio.StreamConfig{SampleRate: 48000, Channels: 2, Format: audio.FormatInt16}

func TestPlatformsImplementInterface(t *testing.T) {
	var _ Platform = (*Malgo)(nil)
	var _ Platform = (*Oto)(nil)
	var _ Platform = (*PortAudio)(nil)
	var _ Platform = (*Null)(nil)
	var _ Stream = (*NullStream)(nil)
}

func TestNegotiate(t *testing.T) {
	dev, cfg, err := Negotiate(NewNull(NullOptions{Config: stereo16}))
	require.NoError(t, err)
	assert.Equal(t, stereo16, cfg)
	assert.Equal(t, "null", dev.Backend)
}

func TestNegotiateFailures(t *testing.T) {
	cases := []struct {
		name string
		opts NullOptions
		want error
	}{
		{"no device", NullOptions{NoDevice: true, Config: stereo16}, ErrNoDevice},
		{"no config", NullOptions{}, ErrNoConfig},
		{"no rate", NullOptions{Config: audio.StreamConfig{Channels: 2, Format: audio.FormatInt16}}, ErrNoConfig},
		{"unknown format", NullOptions{Config: audio.StreamConfig{SampleRate: 48000, Channels: 2}}, audio.ErrUnsupportedFormat},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := Negotiate(NewNull(tc.opts))
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestOpenBackends(t *testing.T) {
	for _, name := range Backends {
		p, err := Open(name, stereo16)
		require.NoError(t, err, name)
		assert.Equal(t, name, p.Name())
	}

	_, err := Open("alsa", stereo16)
	assert.ErrorIs(t, err, ErrUnknownBackend)
}

func TestNullStreamPump(t *testing.T) {
	p := NewNull(NullOptions{Config: stereo16})
	dev, cfg, err := Negotiate(p)
	require.NoError(t, err)

	calls := 0
	stream, err := p.Register(dev, cfg, func(out []byte) {
		calls++
		for i := range out {
			out[i] = 7
		}
	}, nil)
	require.NoError(t, err)
	ns := stream.(*NullStream)

	assert.Nil(t, ns.Pump(16), "callbacks only run after Start")
	require.NoError(t, stream.Start())

	out := ns.Pump(16)
	assert.Len(t, out, 16*cfg.FrameSize())
	assert.Equal(t, byte(7), out[0])
	assert.Equal(t, 1, calls)

	require.NoError(t, stream.Close())
	assert.Nil(t, ns.Pump(16))
	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, stream.Start(), ErrStreamClosed)
}

func TestNullStreamFault(t *testing.T) {
	p := NewNull(NullOptions{Config: stereo16})
	var got error
	stream, err := p.Register(Device{}, stereo16, func([]byte) {}, func(err error) { got = err })
	require.NoError(t, err)

	stream.(*NullStream).Fault(nil)
	assert.ErrorIs(t, got, ErrDeviceStopped)

	boom := errors.New("boom")
	stream.(*NullStream).Fault(boom)
	assert.ErrorIs(t, got, boom)
}

func TestNullCloseClosesStreams(t *testing.T) {
	p := NewNull(NullOptions{Config: stereo16, Realtime: true, PeriodFrames: 64})
	stream, err := p.Register(Device{}, stereo16, func([]byte) {}, nil)
	require.NoError(t, err)
	require.NoError(t, stream.Start())

	require.NoError(t, p.Close())
	assert.True(t, stream.(*NullStream).Closed())
}

func TestMalgoFormatMapping(t *testing.T) {
	cases := []struct {
		in   malgo.FormatType
		want audio.SampleFormat
	}{
		{malgo.FormatU8, audio.FormatUInt8},
		{malgo.FormatS16, audio.FormatInt16},
		{malgo.FormatS32, audio.FormatInt32},
		{malgo.FormatF32, audio.FormatFloat32},
	}
	for _, tc := range cases {
		got, err := fromMalgoFormat(tc.in)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got)

		back, err := toMalgoFormat(got)
		require.NoError(t, err)
		assert.Equal(t, tc.in, back)
	}

	_, err := fromMalgoFormat(malgo.FormatS24)
	assert.ErrorIs(t, err, audio.ErrUnsupportedFormat)

	_, err = toMalgoFormat(audio.FormatFloat64)
	assert.ErrorIs(t, err, audio.ErrUnsupportedFormat)
}

func TestMalgoAnyFormatDefaults(t *testing.T) {
	cfg, err := configFromMalgo(malgo.DataFormat{Format: malgo.FormatUnknown})
	require.NoError(t, err)
	assert.Equal(t, audio.StreamConfig{SampleRate: 48000, Channels: 2, Format: audio.FormatFloat32}, cfg)

	cfg, err = configFromMalgo(malgo.DataFormat{Format: malgo.FormatS16, Channels: 6, SampleRate: 44100})
	require.NoError(t, err)
	assert.Equal(t, audio.StreamConfig{SampleRate: 44100, Channels: 6, Format: audio.FormatInt16}, cfg)
}

func TestOtoDefaultsAndFormats(t *testing.T) {
	o := NewOto(audio.StreamConfig{})
	dev, err := o.DefaultDevice()
	require.NoError(t, err)
	assert.Equal(t, DefaultOtoConfig, dev.Config)

	for _, f := range []audio.SampleFormat{audio.FormatInt16, audio.FormatFloat32, audio.FormatUInt8} {
		_, err := toOtoFormat(f)
		assert.NoError(t, err, f.String())
	}
	_, err = toOtoFormat(audio.FormatInt32)
	assert.ErrorIs(t, err, audio.ErrUnsupportedFormat)
}

func TestCallbackReaderWholeFrames(t *testing.T) {
	var seen int
	r := &callbackReader{cb: func(out []byte) { seen = len(out) }, frameSize: 4}

	n, err := r.Read(make([]byte, 10))
	require.NoError(t, err)
	assert.Equal(t, 8, n)
	assert.Equal(t, 8, seen)

	n, err = r.Read(make([]byte, 3))
	require.NoError(t, err)
	assert.Zero(t, n)

	r.close()
	_, err = r.Read(make([]byte, 8))
	assert.Error(t, err)
}
