package dlpc900

import (
	"fmt"
)

// ─── Görüntüleme Modu Komutları ─────────────────────────────────────────────────

// SetDisplayMode, cihazın görüntüleme modunu değiştirir.
//
// Mod geçişi her durumda yapılabilir; güç veya aktivite durumuna bağlı bir
// kısıt yoktur (cihaz kabiliyetini yansıtır). Video taşıyan modlarda
// (ModeVideo, ModeVideoPattern) mod seçiminin ardından harici video
// girişini yönlendiren sabit alıcı yapılandırma komutu da gönderilir.
//
//	err := dev.SetDisplayMode(dlpc900.ModeOnTheFly)
func (d *Device) SetDisplayMode(mode DisplayMode) error {
	if err := d.ensureOpen(); err != nil {
		return err
	}
	if mode > ModeOnTheFly {
		return fmt.Errorf("%w: display mode %d out of range 0-3", ErrInvalidArgument, byte(mode))
	}

	if _, err := d.sendCommand(AddrDisplayMode, ModeWrite, true, []byte{byte(mode)}); err != nil {
		return err
	}
	d.displayMode = mode
	d.logf("display mode set to %s", mode)

	if mode.carriesVideo() {
		if _, err := d.sendCommand(AddrVideoRoute, ModeWrite, true, []byte{receiverRoute}); err != nil {
			return err
		}
		d.logf("video receiver routed")
	}
	return nil
}

// ─── Pattern Komutları ──────────────────────────────────────────────────────────

// DefinePattern, tek bir pattern LUT girdisini cihaza yazar.
//
// Yerel durum değişmez ve geçiş kısıtı yoktur; pattern içeriğinin mevcut
// görüntüleme moduyla uyumluluğu çağıranın sorumluluğundadır.
//
//	err := dev.DefinePattern(dlpc900.PatternDef{
//	    Index:      0,
//	    ExposureUS: 1000000,
//	    BitDepth:   1,
//	    DarkTimeUS: 500000,
//	})
func (d *Device) DefinePattern(p PatternDef) error {
	if err := d.ensureOpen(); err != nil {
		return err
	}

	payload, err := packPatternDef(p)
	if err != nil {
		return err
	}
	_, err = d.sendCommand(AddrPatternDefine, ModeWrite, true, payload)
	return err
}

// ConfigurePatternCount, LUT'taki pattern sayısını ve sekansın tekrar
// sayısını yapılandırır. repeat=0 süresiz tekrar anlamına gelir.
func (d *Device) ConfigurePatternCount(count uint16, repeat uint32) error {
	if err := d.ensureOpen(); err != nil {
		return err
	}

	_, err := d.sendCommand(AddrPatternConfig, ModeWrite, true, packPatternConfig(count, repeat))
	return err
}

// ControlPattern, sekanslayıcıya bir kontrol eylemi gönderir
// (PatternStop, PatternPause veya PatternStart).
//
// Cihazın kendi sekanslayıcı durumu yerel modelde izlenmez; güncel durum
// GetMainStatus ile sorgulanabilir.
func (d *Device) ControlPattern(action PatternAction) error {
	if err := d.ensureOpen(); err != nil {
		return err
	}
	if action > PatternStart {
		return fmt.Errorf("%w: pattern action %d out of range 0-2", ErrInvalidArgument, byte(action))
	}

	_, err := d.sendCommand(AddrPatternControl, ModeWrite, true, []byte{byte(action)})
	return err
}

// ─── Güç Yönetimi Komutları ─────────────────────────────────────────────────────

// Idle, cihazı boşta (idle) moduna alır. Cihaz zaten boştaysa komut
// gönderilmez ve false döner; bu bir hata değildir. Gereksiz cihaz
// yazmalarını ve sekans sayacının operatör beklentisinden sapmasını önler.
//
//	changed, err := dev.Idle()
func (d *Device) Idle() (bool, error) {
	if err := d.ensureOpen(); err != nil {
		return false, err
	}
	if d.activity == ActivityIdle {
		d.logf("idle: already idle, skipping")
		return false, nil
	}

	if _, err := d.sendCommand(AddrIdleMode, ModeWrite, true, []byte{1}); err != nil {
		return false, err
	}
	d.activity = ActivityIdle
	return true, nil
}

// Active, cihazı boşta modundan çıkarır. Cihaz zaten aktifse komut
// gönderilmez ve false döner.
func (d *Device) Active() (bool, error) {
	if err := d.ensureOpen(); err != nil {
		return false, err
	}
	if d.activity == ActivityActive {
		d.logf("active: already active, skipping")
		return false, nil
	}

	if _, err := d.sendCommand(AddrIdleMode, ModeWrite, true, []byte{0}); err != nil {
		return false, err
	}
	d.activity = ActivityActive
	return true, nil
}

// Sleep, cihazı standby (uyku) moduna alır. Cihaz zaten uykudaysa komut
// gönderilmez ve false döner.
//
// Uykuya geçen cihaz yanıt veremeyebileceğinden yanıt istenmez. Uykudayken
// Wakeup dışındaki komutların cihaz tarafından kabul edilip edilmeyeceği
// belgelenmemiştir; bu kütüphane ek bir engel koymaz.
func (d *Device) Sleep() (bool, error) {
	if err := d.ensureOpen(); err != nil {
		return false, err
	}
	if d.power == PowerSleeping {
		d.logf("sleep: already sleeping, skipping")
		return false, nil
	}

	if _, err := d.sendCommand(AddrPowerControl, ModeWrite, false, []byte{powerStandby}); err != nil {
		return false, err
	}
	d.power = PowerSleeping
	return true, nil
}

// Wakeup, cihazı uykudan uyandırır. Cihaz zaten uyanıksa komut gönderilmez
// ve false döner. Güç geçişi sırasında yanıt güvenilir olmadığından yanıt
// istenmez.
func (d *Device) Wakeup() (bool, error) {
	if err := d.ensureOpen(); err != nil {
		return false, err
	}
	if d.power == PowerAwake {
		d.logf("wakeup: already awake, skipping")
		return false, nil
	}

	if _, err := d.sendCommand(AddrPowerControl, ModeWrite, false, []byte{powerNormal}); err != nil {
		return false, err
	}
	d.power = PowerAwake
	return true, nil
}

// Reset, cihaza yazılım reset komutu gönderir.
//
// Yerel durum modeli değiştirilmez: cihaz kendi varsayılanlarına döner ama
// yerel model bunu varsaymaz. Reset sonrası güncel durum GetMainStatus ile
// yeniden sorgulanmalıdır.
func (d *Device) Reset() error {
	if err := d.ensureOpen(); err != nil {
		return err
	}

	_, err := d.sendCommand(AddrPowerControl, ModeWrite, false, []byte{powerReset})
	return err
}

// ─── Sorgu Komutları ────────────────────────────────────────────────────────────

// GetFirmwareVersion, cihazın uygulama ve API versiyonlarını sorgular.
// USB ürün/üretici tanımlayıcı metinleri transport katmanından eklenir.
//
//	info, err := dev.GetFirmwareVersion()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("App: %s, API: %s\n", info.App, info.API)
func (d *Device) GetFirmwareVersion() (*FirmwareInfo, error) {
	if err := d.ensureOpen(); err != nil {
		return nil, err
	}

	reply, err := d.sendCommand(AddrFirmwareVersion, ModeRead, true, nil)
	if err != nil {
		return nil, err
	}

	info, err := decodeFirmwareVersion(reply)
	if err != nil {
		return nil, err
	}
	info.Product = d.link.ProductString()
	info.Manufacturer = d.link.ManufacturerString()
	return &info, nil
}

// GetHardwareStatus, donanım durum byte'ını sorgular.
// Byte genellikle ikilik gösterimiyle görüntülenir:
//
//	status, err := dev.GetHardwareStatus()
//	fmt.Printf("hardware status: %08b\n", status)
func (d *Device) GetHardwareStatus() (byte, error) {
	if err := d.ensureOpen(); err != nil {
		return 0, err
	}

	reply, err := d.sendCommand(AddrHardwareStatus, ModeRead, true, nil)
	if err != nil {
		return 0, err
	}
	return decodeHardwareStatus(reply)
}

// GetMainStatus, ana durum byte'ını sorgular ve altı bayrağı (aynalar
// park halinde mi, sekanslayıcı çalışıyor mu, video donmuş mu, harici
// kaynak kilitli mi, port 1/2 senkron geçerli mi) çözümlenmiş olarak döner.
//
//	snap, err := dev.GetMainStatus()
//	for _, f := range snap.Flags {
//	    fmt.Println(f.Text)
//	}
func (d *Device) GetMainStatus() (*StatusSnapshot, error) {
	if err := d.ensureOpen(); err != nil {
		return nil, err
	}

	reply, err := d.sendCommand(AddrMainStatus, ModeRead, true, nil)
	if err != nil {
		return nil, err
	}

	snap, err := decodeMainStatus(reply)
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

// ─── Ham Komut Erişimi ──────────────────────────────────────────────────────────

// SendRawCommand, verilen alt adrese ham bir komut gönderir ve yanıt
// istendiyse ham yanıtı döner. DLPC900 komut setinin bu kütüphanede
// kapsanmayan yüzlerce alt adresi için düşük seviyeli erişim sağlar.
//
// Sekans numarası otomatik atanır. Yerel durum modeli güncellenmez;
// güç/görüntüleme durumunu değiştiren ham komutlar modeli bayatlatabilir.
func (d *Device) SendRawCommand(addr SubAddress, mode CommandMode, reply bool, payload []byte) ([]byte, error) {
	if err := d.ensureOpen(); err != nil {
		return nil, err
	}
	return d.sendCommand(addr, mode, reply, payload)
}
