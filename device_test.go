package dlpc900

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLink, testlerde gerçek cihaz yerine geçen DeviceLink implementasyonudur.
// Yazılan paketleri kaydeder ve sabit bir yanıt döner.
type fakeLink struct {
	writes   [][]byte
	reply    []byte
	writeErr error
	readErr  error
	reads    int
	closed   bool
}

func (f *fakeLink) Write(p []byte) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	pkt := make([]byte, len(p))
	copy(pkt, p)
	f.writes = append(f.writes, pkt)
	return nil
}

func (f *fakeLink) Read() ([]byte, error) {
	f.reads++
	if f.readErr != nil {
		return nil, f.readErr
	}
	if f.reply != nil {
		return f.reply, nil
	}
	return make([]byte, PacketSize), nil
}

func (f *fakeLink) Close() error {
	f.closed = true
	return nil
}

func (f *fakeLink) ProductString() string      { return "fake projector" }
func (f *fakeLink) ManufacturerString() string { return "fake" }

// subAddrOf, kaydedilmiş bir komut paketinden alt adresi geri okur.
func subAddrOf(t *testing.T, pkt []byte) SubAddress {
	t.Helper()
	require.GreaterOrEqual(t, len(pkt), commandHeaderLength)
	return SubAddress{pkt[5], pkt[4]}
}

func TestNewDeviceInitialState(t *testing.T) {
	dev := NewDevice(&fakeLink{})
	assert.Equal(t, PowerAwake, dev.Power())
	assert.Equal(t, ActivityActive, dev.Activity())
	assert.Equal(t, ModeOnTheFly, dev.DisplayMode())
	assert.NotEmpty(t, dev.SessionGUID())
}

func TestSequenceNumbersWrap(t *testing.T) {
	link := &fakeLink{}
	dev := NewDevice(link)

	for i := 0; i < 300; i++ {
		_, err := dev.SendRawCommand(AddrMainStatus, ModeRead, false, nil)
		require.NoError(t, err)
	}

	require.Len(t, link.writes, 300)
	prev := byte(0)
	for i, pkt := range link.writes {
		seq := pkt[1]
		assert.NotZero(t, seq, "command %d", i)
		if i == 0 {
			assert.Equal(t, byte(1), seq)
		} else if prev == maxSequence {
			assert.Equal(t, byte(1), seq, "command %d: wrap after 255", i)
		} else {
			assert.Equal(t, prev+1, seq, "command %d", i)
		}
		prev = seq
	}
}

func TestLongCommandFragmentation(t *testing.T) {
	link := &fakeLink{}
	dev := NewDevice(link)

	// 124 byte payload + 6 byte başlık = 130 byte akış.
	_, err := dev.SendRawCommand(AddrPatternDefine, ModeWrite, false, make([]byte, 124))
	require.NoError(t, err)

	require.Len(t, link.writes, 3)
	assert.Len(t, link.writes[0], 64)
	assert.Len(t, link.writes[1], 64)
	assert.Len(t, link.writes[2], 2)

	// Başlık yalnızca ilk pakette bulunur.
	assert.Equal(t, byte(126), link.writes[0][2], "length low byte")
	assert.Equal(t, byte(0), link.writes[0][3], "length high byte")
}

func TestIdleIdempotent(t *testing.T) {
	link := &fakeLink{}
	dev := NewDevice(link)

	changed, err := dev.Idle()
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, ActivityIdle, dev.Activity())
	assert.Len(t, link.writes, 1)
	assert.Equal(t, AddrIdleMode, subAddrOf(t, link.writes[0]))
	assert.Equal(t, byte(1), link.writes[0][6])

	// İkinci çağrı komut üretmez.
	changed, err = dev.Idle()
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Len(t, link.writes, 1)

	changed, err = dev.Active()
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, ActivityActive, dev.Activity())
	require.Len(t, link.writes, 2)
	assert.Equal(t, byte(0), link.writes[1][6])
}

func TestSleepIdempotent(t *testing.T) {
	link := &fakeLink{}
	dev := NewDevice(link)

	changed, err := dev.Sleep()
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, PowerSleeping, dev.Power())
	require.Len(t, link.writes, 1)
	assert.Equal(t, AddrPowerControl, subAddrOf(t, link.writes[0]))
	assert.Equal(t, byte(0x00), link.writes[0][0], "sleep must not request a reply")
	assert.Equal(t, powerStandby, link.writes[0][6])
	assert.Zero(t, link.reads, "no reply must be read")

	changed, err = dev.Sleep()
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Len(t, link.writes, 1)

	changed, err = dev.Wakeup()
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, PowerAwake, dev.Power())
	require.Len(t, link.writes, 2)
	assert.Equal(t, powerNormal, link.writes[1][6])

	changed, err = dev.Wakeup()
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Len(t, link.writes, 2)
}

func TestResetLeavesLocalState(t *testing.T) {
	link := &fakeLink{}
	dev := NewDevice(link)
	require.NoError(t, dev.SetDisplayMode(ModePreStoredPattern))

	require.NoError(t, dev.Reset())
	last := link.writes[len(link.writes)-1]
	assert.Equal(t, AddrPowerControl, subAddrOf(t, last))
	assert.Equal(t, byte(0x00), last[0], "reset must not request a reply")
	assert.Equal(t, powerReset, last[6])

	// Reset yerel modele dokunmaz.
	assert.Equal(t, ModePreStoredPattern, dev.DisplayMode())
	assert.Equal(t, PowerAwake, dev.Power())
}

func TestSetDisplayModeRoutesVideo(t *testing.T) {
	link := &fakeLink{}
	dev := NewDevice(link)

	require.NoError(t, dev.SetDisplayMode(ModeVideo))
	require.Len(t, link.writes, 2)
	assert.Equal(t, AddrDisplayMode, subAddrOf(t, link.writes[0]))
	assert.Equal(t, byte(0), link.writes[0][6])
	assert.Equal(t, AddrVideoRoute, subAddrOf(t, link.writes[1]))
	assert.Equal(t, receiverRoute, link.writes[1][6])
	assert.Equal(t, ModeVideo, dev.DisplayMode())
}

func TestSetDisplayModePatternSkipsRouting(t *testing.T) {
	link := &fakeLink{}
	dev := NewDevice(link)

	require.NoError(t, dev.SetDisplayMode(ModePreStoredPattern))
	assert.Len(t, link.writes, 1)

	require.NoError(t, dev.SetDisplayMode(ModeVideoPattern))
	assert.Len(t, link.writes, 3, "video pattern mode routes the receiver too")
}

func TestSetDisplayModeRejectsOutOfRange(t *testing.T) {
	link := &fakeLink{}
	dev := NewDevice(link)

	err := dev.SetDisplayMode(DisplayMode(4))
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Empty(t, link.writes)
	assert.Equal(t, ModeOnTheFly, dev.DisplayMode())
}

func TestControlPatternRejectsOutOfRange(t *testing.T) {
	link := &fakeLink{}
	dev := NewDevice(link)

	err := dev.ControlPattern(PatternAction(3))
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Empty(t, link.writes)
}

func TestTransportErrorLeavesState(t *testing.T) {
	bang := errors.New("unplugged")
	link := &fakeLink{writeErr: bang}
	dev := NewDevice(link)

	_, err := dev.Idle()
	require.Error(t, err)

	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, "write", terr.Op)
	assert.ErrorIs(t, err, bang)

	// Gönderilemeyen komut yerel durumu değiştirmez.
	assert.Equal(t, ActivityActive, dev.Activity())
}

func TestReadErrorWrapped(t *testing.T) {
	bang := errors.New("timeout")
	link := &fakeLink{readErr: bang}
	dev := NewDevice(link)

	_, err := dev.GetMainStatus()
	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, "read", terr.Op)
}

func TestGetFirmwareVersion(t *testing.T) {
	link := &fakeLink{reply: []byte{
		0xC0, 0x01, 0x0C, 0x00,
		0x03, 0x00, 0x02, 0x01,
		0x01, 0x00, 0x00, 0x03,
	}}
	dev := NewDevice(link)

	info, err := dev.GetFirmwareVersion()
	require.NoError(t, err)
	assert.Equal(t, "1.2.3", info.App.String())
	assert.Equal(t, "3.0.1", info.API.String())
	assert.Equal(t, "fake projector", info.Product)
	assert.Equal(t, "fake", info.Manufacturer)

	require.Len(t, link.writes, 1)
	assert.Equal(t, byte(0xC0), link.writes[0][0], "read + reply flag")
	assert.Equal(t, AddrFirmwareVersion, subAddrOf(t, link.writes[0]))
}

func TestGetMainStatus(t *testing.T) {
	link := &fakeLink{reply: []byte{0xC0, 0x01, 0x03, 0x00, 0b00010110}}
	dev := NewDevice(link)

	snap, err := dev.GetMainStatus()
	require.NoError(t, err)
	assert.Equal(t, byte(0b00010110), snap.Raw)
	assert.True(t, snap.Flags[1].Set)
	assert.Equal(t, "sequencer is running", snap.Flags[1].Text)
}

func TestCloseAfterSleepWakesFirst(t *testing.T) {
	link := &fakeLink{}
	dev := NewDevice(link)

	_, err := dev.Sleep()
	require.NoError(t, err)

	require.NoError(t, dev.Close())
	require.Len(t, link.writes, 2)
	assert.Equal(t, AddrPowerControl, subAddrOf(t, link.writes[1]))
	assert.Equal(t, powerNormal, link.writes[1][6], "device woken before link release")
	assert.True(t, link.closed)
}

func TestCloseVideoModeShutsReceiver(t *testing.T) {
	link := &fakeLink{}
	dev := NewDevice(link)
	require.NoError(t, dev.SetDisplayMode(ModeVideo))

	before := len(link.writes)
	require.NoError(t, dev.Close())
	require.Len(t, link.writes, before+1)
	last := link.writes[len(link.writes)-1]
	assert.Equal(t, AddrVideoRoute, subAddrOf(t, last))
	assert.Equal(t, receiverShutdown, last[6])
}

func TestClosePatternModeSkipsReceiver(t *testing.T) {
	link := &fakeLink{}
	dev := NewDevice(link)

	require.NoError(t, dev.Close())
	assert.Empty(t, link.writes)
}

func TestOperationsAfterClose(t *testing.T) {
	link := &fakeLink{}
	dev := NewDevice(link)
	require.NoError(t, dev.Close())

	_, err := dev.Idle()
	assert.ErrorIs(t, err, ErrSessionClosed)

	err = dev.SetDisplayMode(ModeVideo)
	assert.ErrorIs(t, err, ErrSessionClosed)

	_, err = dev.GetMainStatus()
	assert.ErrorIs(t, err, ErrSessionClosed)

	assert.ErrorIs(t, dev.Close(), ErrSessionClosed)
	assert.Empty(t, link.writes, "no command may reach a closed link")
}

func TestDryRunDevice(t *testing.T) {
	dev, err := Open(DefaultVendorID, DefaultProductID, WithDebugLevel(3))
	require.NoError(t, err)
	defer dev.Close()

	// Kuru çalıştırmada yazmalar kısa devre edilir, okumalar boş rapor döner.
	require.NoError(t, dev.SetDisplayMode(ModeOnTheFly))
	_, err = dev.GetHardwareStatus()
	require.NoError(t, err)
}
