package dlpc900

import (
	"encoding/hex"

	"github.com/google/uuid"
)

// Device, bir DLPC900 kontrolcüsüyle USB-HID oturumunu yöneten ana yapıdır.
// Tek bir mantıksal oturumu temsil eder: tüm operasyonlar senkron çalışır ve
// tek bir kontrol thread'inden çağrılmalıdır.
//
// Kullanım:
//
//	dev, err := dlpc900.Open(dlpc900.DefaultVendorID, dlpc900.DefaultProductID)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer dev.Close()
//
//	status, err := dev.GetMainStatus()
type Device struct {
	// link, cihaza giden USB-HID bağlantısıdır.
	link DeviceLink

	// opts, cihaz yapılandırma seçenekleridir.
	opts deviceOptions

	// sessionGUID, bu oturum için benzersiz kimliktir; log satırlarını
	// oturumla ilişkilendirmek için kullanılır.
	sessionGUID string

	// seq, bir sonraki komuta atanacak sekans numarasıdır (1..255).
	// Her komut için tam bir kez ilerletilir; 255'ten sonra 1'e döner.
	seq byte

	// power, yerel olarak izlenen güç durumudur.
	power PowerState

	// activity, yerel olarak izlenen aktivite durumudur.
	activity Activity

	// displayMode, yerel olarak izlenen görüntüleme modudur.
	displayMode DisplayMode

	// closed, Close çağrıldıktan sonra true olur; oturum artık kullanılamaz.
	closed bool
}

// Open, verilen vendor/product kimliğine sahip ilk DLPC900 cihazını açar ve
// yeni bir oturum başlatır. Hata ayıklama seviyesi 3'te gerçek bir bağlantı
// kurulmaz; yazmalar kısa devre edilir (bkz. WithDebugLevel).
//
// Yerel durum modeli cihazın açılış varsayılanını yansıtır:
// uyanık, aktif, Pattern On-The-Fly modu.
func Open(vendorID, productID uint16, options ...DeviceOption) (*Device, error) {
	opts := defaultDeviceOptions()
	for _, opt := range options {
		opt(&opts)
	}

	var link DeviceLink
	if opts.debugLevel >= 3 {
		link = placeholderLink{}
	} else {
		l, err := openHIDLink(vendorID, productID)
		if err != nil {
			return nil, err
		}
		link = l
	}

	return newDevice(link, opts), nil
}

// NewDevice, verilen bağlantı üzerinde yeni bir oturum oluşturur.
// Özel DeviceLink implementasyonları (ör. test sahteleri) için kullanılır;
// normal kullanım için Open tercih edilmelidir.
func NewDevice(link DeviceLink, options ...DeviceOption) *Device {
	opts := defaultDeviceOptions()
	for _, opt := range options {
		opt(&opts)
	}
	return newDevice(link, opts)
}

func newDevice(link DeviceLink, opts deviceOptions) *Device {
	d := &Device{
		link:        link,
		opts:        opts,
		sessionGUID: uuid.New().String(),
		seq:         1,
		power:       PowerAwake,
		activity:    ActivityActive,
		displayMode: ModeOnTheFly,
	}
	d.logf("session started (product: %q, manufacturer: %q)",
		link.ProductString(), link.ManufacturerString())
	return d
}

// ─── Durum Erişimcileri ─────────────────────────────────────────────────────────

// SessionGUID, bu oturumun benzersiz kimliğini döner.
func (d *Device) SessionGUID() string {
	return d.sessionGUID
}

// Power, yerel olarak izlenen güç durumunu döner.
func (d *Device) Power() PowerState {
	return d.power
}

// Activity, yerel olarak izlenen aktivite durumunu döner.
func (d *Device) Activity() Activity {
	return d.activity
}

// DisplayMode, yerel olarak izlenen görüntüleme modunu döner.
// Reset sonrası bu değer bayatlayabilir; güncel durum için cihaz
// yeniden sorgulanmalıdır.
func (d *Device) DisplayMode() DisplayMode {
	return d.displayMode
}

// ─── Oturum Kapatma ─────────────────────────────────────────────────────────────

// Close, oturumu sonlandırır ve cihaz bağlantısını serbest bırakır.
//
// Kapanış sırası:
//  1. Cihaz uykudaysa önce uyandırılır.
//  2. Görüntüleme modu 0 (video) ise alıcı kapatma komutu gönderilir.
//  3. Bağlantı kapatılır.
//
// Close sonrası Device kullanılamaz; tüm operasyonlar ErrSessionClosed döner.
func (d *Device) Close() error {
	if d.closed {
		return ErrSessionClosed
	}

	var firstErr error

	if d.power == PowerSleeping {
		if _, err := d.Wakeup(); err != nil {
			firstErr = err
		}
	}

	if firstErr == nil && d.displayMode == ModeVideo {
		d.logf("shutting down video receiver")
		if _, err := d.sendCommand(AddrVideoRoute, ModeWrite, true, []byte{receiverShutdown}); err != nil {
			firstErr = err
		}
	}

	if err := d.link.Close(); err != nil && firstErr == nil {
		firstErr = err
	}

	d.closed = true
	d.logf("session closed")
	return firstErr
}

// ─── Komut Gönderme/Alma ────────────────────────────────────────────────────────

// nextSequence, mevcut sekans değerini döner ve sayacı ilerletir.
// 255'ten sonra 1'e döner; 0 hiçbir zaman üretilmez. Cihaz sekans
// numaralarını yanıt eşleştirmesinde kullandığından her komut için tam
// bir kez çağrılmalıdır.
func (d *Device) nextSequence() byte {
	v := d.seq
	d.seq++
	if d.seq == 0 { // byte taşması: maxSequence'tan sonra 1'e dön
		d.seq = 1
	}
	return v
}

// sendCommand, bir komutu kodlar, sabit boyutlu paketlere bölerek gönderir
// ve yanıt istendiyse tek bir yanıt raporu okuyup döner. Bu, tüm komutların
// geçtiği gönder-al döngüsüdür.
//
// Gönderme veya alma başarısız olursa hata TransportError olarak sarılıp
// olduğu gibi iletilir; yeniden deneme yapılmaz.
func (d *Device) sendCommand(addr SubAddress, mode CommandMode, reply bool, payload []byte) ([]byte, error) {
	seq := d.nextSequence()
	stream := encodeCommand(addr, mode, reply, seq, payload)

	d.logf("command %s %s seq=%d payload=%d bytes reply=%v", addr, mode, seq, len(payload), reply)
	d.dump("outgoing command", stream)

	for _, pkt := range splitPackets(stream, PacketSize) {
		if err := d.link.Write(pkt); err != nil {
			return nil, &TransportError{Op: "write", Err: err}
		}
	}

	if !reply {
		return nil, nil
	}

	data, err := d.link.Read()
	if err != nil {
		return nil, &TransportError{Op: "read", Err: err}
	}
	d.dump("incoming reply", data)
	return data, nil
}

// ensureOpen, oturumun hâlâ açık olduğunu kontrol eder.
func (d *Device) ensureOpen() error {
	if d.closed {
		return ErrSessionClosed
	}
	return nil
}

// ─── Dahili Yardımcılar ─────────────────────────────────────────────────────────

// logf, yapılandırılmış logger varsa ve hata ayıklama seviyesi yeterliyse
// mesaj yazar. Mesajlar oturum kimliğinin kısa haliyle etiketlenir.
func (d *Device) logf(format string, v ...interface{}) {
	if d.opts.logger == nil || d.opts.debugLevel < 1 {
		return
	}
	d.opts.logger.Printf("[dlpc900 "+d.sessionGUID[:8]+"] "+format, v...)
}

// dump, hata ayıklama seviyesi 2 ve üzerinde ham paket içeriğini
// hex dump olarak loglar.
func (d *Device) dump(label string, data []byte) {
	if d.opts.logger == nil || d.opts.debugLevel < 2 {
		return
	}
	d.opts.logger.Printf("[dlpc900 "+d.sessionGUID[:8]+"] %s:\n%s", label, hex.Dump(data))
}
