package dlpc900

import (
	"fmt"

	"github.com/sstallion/go-hid"
)

// ─── Cihaz Bağlantı Arayüzü ─────────────────────────────────────────────────────

// DeviceLink, fiziksel USB-HID bağlantısını soyutlayan dar arayüzdür.
// Çekirdek tüm G/Ç işlemlerini bu arayüz üzerinden yapar; zaman aşımı
// politikası ve cihaz numaralandırması bu katmanın sorumluluğundadır.
type DeviceLink interface {
	// Write, tek bir sabit boyutlu parçayı cihaza yazar.
	Write(p []byte) error

	// Read, cihazdan tek bir yanıt raporu okur ve olduğu gibi döner.
	Read() ([]byte, error)

	// Close, bağlantıyı serbest bırakır.
	Close() error

	// ProductString, USB ürün tanımlayıcı metnini döner.
	ProductString() string

	// ManufacturerString, USB üretici tanımlayıcı metnini döner.
	ManufacturerString() string
}

// ─── HID Bağlantısı ─────────────────────────────────────────────────────────────

// hidLink, sstallion/go-hid üzerinden gerçek bir USB-HID bağlantısıdır.
type hidLink struct {
	dev *hid.Device
}

// openHIDLink, verilen vendor/product kimliğine sahip ilk HID cihazını açar.
func openHIDLink(vendorID, productID uint16) (*hidLink, error) {
	if err := hid.Init(); err != nil {
		return nil, fmt.Errorf("could not init hid: %w", err)
	}
	dev, err := hid.OpenFirst(vendorID, productID)
	if err != nil {
		return nil, fmt.Errorf("could not open hid device %04x:%04x: %w", vendorID, productID, err)
	}
	return &hidLink{dev: dev}, nil
}

// Write, parçanın başına HID rapor kimliğini (0x00) ekleyip cihaza yazar.
func (l *hidLink) Write(p []byte) error {
	buf := make([]byte, 1+len(p))
	copy(buf[1:], p)

	n, err := l.dev.Write(buf)
	if err != nil {
		return err
	}
	if n != len(buf) {
		return fmt.Errorf("short write: %d of %d bytes", n, len(buf))
	}
	return nil
}

// Read, cihazdan tek bir 64 byte'lık rapor okur.
func (l *hidLink) Read() ([]byte, error) {
	buf := make([]byte, PacketSize)
	n, err := l.dev.Read(buf)
	if err != nil {
		return nil, err
	}
	return buf[:n], nil
}

// Close, HID cihazını kapatır.
func (l *hidLink) Close() error {
	return l.dev.Close()
}

// ProductString, USB ürün tanımlayıcısını döner. Okunamazsa boş döner.
func (l *hidLink) ProductString() string {
	s, err := l.dev.GetProductStr()
	if err != nil {
		return ""
	}
	return s
}

// ManufacturerString, USB üretici tanımlayıcısını döner. Okunamazsa boş döner.
func (l *hidLink) ManufacturerString() string {
	s, err := l.dev.GetMfrStr()
	if err != nil {
		return ""
	}
	return s
}

// ─── Yer Tutucu Bağlantı ────────────────────────────────────────────────────────

// placeholderLink, hata ayıklama seviyesi 3'te kullanılan cihazsız
// bağlantıdır. Yazmalar kısa devre edilir, okumalar sabit bir yer tutucu
// yanıt döner. Protokol akışını gerçek donanım olmadan denemeyi sağlar.
type placeholderLink struct{}

func (placeholderLink) Write(p []byte) error { return nil }

func (placeholderLink) Read() ([]byte, error) {
	return make([]byte, PacketSize), nil
}

func (placeholderLink) Close() error { return nil }

func (placeholderLink) ProductString() string { return "dry-run device" }

func (placeholderLink) ManufacturerString() string { return "dlpc900" }
