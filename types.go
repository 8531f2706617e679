package dlpc900

import (
	"errors"
	"fmt"
)

// ─── Protokol Sabitleri ─────────────────────────────────────────────────────────

const (
	// DefaultVendorID, Texas Instruments'ın USB vendor kimliğidir.
	DefaultVendorID uint16 = 0x0451

	// DefaultProductID, DLPC900 tabanlı LightCrafter kontrolcülerinin
	// varsayılan USB product kimliğidir.
	DefaultProductID uint16 = 0xC900

	// PacketSize, tek bir HID write işleminde taşınan byte sayısıdır.
	// Daha uzun komutlar bu boyutta parçalara bölünerek gönderilir.
	PacketSize = 64

	// commandHeaderLength, komut başlığının uzunluğudur.
	// Format: [1B flag][1B sequence][2B length LE][2B sub-address LE]
	commandHeaderLength = 6

	// replyHeaderLength, cihaz yanıt başlığının uzunluğudur.
	// Format: [1B flag][1B sequence][2B length LE], veri 4. byte'tan başlar.
	replyHeaderLength = 4

	// maxSequence, sekans sayacının üst sınırıdır. Sayaç 1'den başlar,
	// bu değeri aştığında 1'e döner; 0 hiçbir zaman üretilmez.
	maxSequence = 255

	// flagRead, flag byte'ında okuma komutunu işaretleyen bittir (bit 7).
	flagRead byte = 0x80

	// flagReply, flag byte'ında yanıt istendiğini işaretleyen bittir (bit 6).
	flagReply byte = 0x40

	// patternRecordLength, pattern LUT tanım kaydının byte uzunluğudur.
	// Format: [2B index][3B exposure µs][1B bit depth][3B dark time µs]
	//         [1B flags][2B image index/bit plane]
	patternRecordLength = 12

	// maxExposure, 24 bit'e sığan en büyük süre değeridir (mikrosaniye).
	maxExposure = 1<<24 - 1
)

// ─── Alt Adresler ───────────────────────────────────────────────────────────────

// SubAddress, bir komutun hedeflediği cihaz register/özelliğini seçen iki
// byte'lık kimliktir. İlk byte üst (CMD2), ikinci byte alt (CMD1) byte'tır;
// hat üzerinde alt byte önce gönderilir.
type SubAddress [2]byte

var (
	// AddrDisplayMode, görüntüleme modu seçim komutudur (0x1A1B).
	AddrDisplayMode = SubAddress{0x1A, 0x1B}

	// AddrVideoRoute, harici video girişini yönlendiren alıcı (receiver)
	// yapılandırma komutudur (0x1A01). Video taşıyan modlarda (0 ve 2)
	// mod seçiminden hemen sonra yazılır.
	AddrVideoRoute = SubAddress{0x1A, 0x01}

	// AddrPatternDefine, pattern LUT tanım komutudur (0x1A34).
	AddrPatternDefine = SubAddress{0x1A, 0x34}

	// AddrPatternConfig, pattern sayısı/tekrar yapılandırma komutudur (0x1A31).
	AddrPatternConfig = SubAddress{0x1A, 0x31}

	// AddrPatternControl, sekanslayıcı kontrol komutudur (0x1A24).
	AddrPatternControl = SubAddress{0x1A, 0x24}

	// AddrIdleMode, boşta (idle) modu aç/kapat komutudur (0x0201).
	AddrIdleMode = SubAddress{0x02, 0x01}

	// AddrPowerControl, güç yönetimi komutudur (0x0200).
	// Payload: 0=uyandır, 1=uyut (standby), 2=yazılım reset.
	AddrPowerControl = SubAddress{0x02, 0x00}

	// AddrFirmwareVersion, firmware versiyon sorgusudur (0x0205).
	AddrFirmwareVersion = SubAddress{0x02, 0x05}

	// AddrHardwareStatus, donanım durum sorgusudur (0x1A0A).
	AddrHardwareStatus = SubAddress{0x1A, 0x0A}

	// AddrMainStatus, ana durum sorgusudur (0x1A0C).
	AddrMainStatus = SubAddress{0x1A, 0x0C}
)

// String, SubAddress'in okunabilir temsilini döner.
func (a SubAddress) String() string {
	return fmt.Sprintf("0x%02X%02X", a[0], a[1])
}

// Güç kontrol komutunun payload değerleri.
const (
	powerNormal  byte = 0 // Uyandır / normal çalışma
	powerStandby byte = 1 // Standby (uyku)
	powerReset   byte = 2 // Yazılım reset
)

// Alıcı yönlendirme komutunun payload değerleri.
const (
	receiverRoute    byte = 0x02 // Harici video girişini yönlendir
	receiverShutdown byte = 0x00 // Alıcıyı kapat
)

// ─── Komut Modu ─────────────────────────────────────────────────────────────────

// CommandMode, bir komutun okuma mı yazma mı olduğunu belirtir.
type CommandMode byte

const (
	// ModeWrite, cihaza veri yazan komut modudur.
	ModeWrite CommandMode = iota

	// ModeRead, cihazdan veri okuyan komut modudur.
	ModeRead
)

// String, CommandMode'un okunabilir temsilini döner.
func (m CommandMode) String() string {
	if m == ModeRead {
		return "read"
	}
	return "write"
}

// ─── Görüntüleme Modları ────────────────────────────────────────────────────────

// DisplayMode, DLPC900'ün dört görüntüleme modundan birini temsil eder.
type DisplayMode byte

const (
	// ModeVideo, normal video modudur. Harici video girişi doğrudan
	// DMD'ye yansıtılır.
	ModeVideo DisplayMode = 0

	// ModePreStoredPattern, flash'a önceden yüklenmiş pattern modudur.
	ModePreStoredPattern DisplayMode = 1

	// ModeVideoPattern, video girişinden pattern üreten moddur.
	ModeVideoPattern DisplayMode = 2

	// ModeOnTheFly, pattern verilerinin bağlantı üzerinden akıtıldığı
	// moddur. Cihazın açılıştaki varsayılan modudur.
	ModeOnTheFly DisplayMode = 3
)

// String, DisplayMode'un okunabilir adını döner.
func (m DisplayMode) String() string {
	switch m {
	case ModeVideo:
		return "Video"
	case ModePreStoredPattern:
		return "Pre-Stored Pattern"
	case ModeVideoPattern:
		return "Video Pattern"
	case ModeOnTheFly:
		return "Pattern On-The-Fly"
	default:
		return fmt.Sprintf("Mode(%d)", byte(m))
	}
}

// carriesVideo, modun harici video girişi taşıyıp taşımadığını belirtir.
// Bu modlarda mod seçiminin ardından alıcı yönlendirme komutu gönderilir.
func (m DisplayMode) carriesVideo() bool {
	return m == ModeVideo || m == ModeVideoPattern
}

// ─── Pattern Kontrol ────────────────────────────────────────────────────────────

// PatternAction, sekanslayıcıya gönderilen kontrol eylemini temsil eder.
type PatternAction byte

const (
	PatternStop  PatternAction = 0 // Sekansı durdur (başa sarar)
	PatternPause PatternAction = 1 // Sekansı duraklat
	PatternStart PatternAction = 2 // Sekansı başlat / devam ettir
)

// String, PatternAction'ın okunabilir adını döner.
func (a PatternAction) String() string {
	switch a {
	case PatternStop:
		return "Stop"
	case PatternPause:
		return "Pause"
	case PatternStart:
		return "Start"
	default:
		return fmt.Sprintf("Action(%d)", byte(a))
	}
}

// ─── Güç / Aktivite Durumu ──────────────────────────────────────────────────────

// PowerState, cihazın yerel olarak izlenen güç durumudur.
type PowerState byte

const (
	PowerAwake    PowerState = iota // Normal çalışma
	PowerSleeping                   // Standby (uyku)
)

// String, PowerState'in okunabilir adını döner.
func (p PowerState) String() string {
	if p == PowerSleeping {
		return "sleeping"
	}
	return "awake"
}

// Activity, cihazın yerel olarak izlenen aktivite durumudur.
// Idle, hızlı devam kabiliyetini koruyan düşük güç durumudur; tam uykudan
// (PowerSleeping) farklıdır.
type Activity byte

const (
	ActivityActive Activity = iota // Normal görüntüleme
	ActivityIdle                   // Boşta (idle) modu
)

// String, Activity'nin okunabilir adını döner.
func (a Activity) String() string {
	if a == ActivityIdle {
		return "idle"
	}
	return "active"
}

// ─── Veri Yapıları ──────────────────────────────────────────────────────────────

// Version, major.minor.patch biçiminde bir versiyon numarasını tutar.
// Patch 16 bit, major ve minor 8 bit genişliğindedir.
type Version struct {
	Major uint8
	Minor uint8
	Patch uint16
}

// String, Version'ı "major.minor.patch" biçiminde döner.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// FirmwareInfo, firmware versiyon sorgusunun çözümlenmiş sonucunu tutar.
type FirmwareInfo struct {
	// App, uygulama yazılımı versiyonudur.
	App Version

	// API, API versiyonudur.
	API Version

	// Product, USB tanımlayıcısından okunan ürün adıdır.
	Product string

	// Manufacturer, USB tanımlayıcısından okunan üretici adıdır.
	Manufacturer string
}

// StatusFlag, ana durum yanıtındaki tek bir bit alanını temsil eder.
type StatusFlag struct {
	// Name, bayrağın kısa adıdır.
	Name string

	// Set, bitin ham değeridir.
	Set bool

	// Text, bitin mevcut değerine karşılık gelen açıklamadır.
	Text string
}

// StatusSnapshot, ana durum sorgusunun çözümlenmiş sonucudur.
// Her sorguda yeniden üretilir; önbelleğe alınmaz.
type StatusSnapshot struct {
	// Raw, durum byte'ının ham değeridir.
	Raw byte

	// Flags, düşük 6 bit'in sırayla (bit 0'dan 5'e) çözümlenmiş halidir.
	Flags [6]StatusFlag
}

// mainStatusLabels, ana durum bitlerinin ad ve değer açıklamalarıdır.
// Sıra: bit 0'dan bit 5'e. [0]: bit=0 metni, [1]: bit=1 metni.
var mainStatusLabels = [6]struct {
	name string
	text [2]string
}{
	{"mirrors-parked", [2]string{"micromirrors are not parked", "micromirrors are parked"}},
	{"sequencer-running", [2]string{"sequencer is stopped", "sequencer is running"}},
	{"video-frozen", [2]string{"video is running", "video is frozen (single frame)"}},
	{"source-locked", [2]string{"external video source is not locked", "external video source is locked"}},
	{"port1-sync", [2]string{"port 1 syncs not valid", "port 1 syncs valid"}},
	{"port2-sync", [2]string{"port 2 syncs not valid", "port 2 syncs valid"}},
}

// PatternDef, tek bir pattern LUT girdisini tanımlar.
// Alanlar cihaza sabit sırayla, her biri kendi byte genişliğinde ve
// little-endian olarak paketlenir (bkz. packPatternDef).
type PatternDef struct {
	// Index, pattern'in LUT içindeki sıra numarasıdır.
	Index uint16

	// ExposureUS, pattern'in gösterim süresidir (mikrosaniye, 24 bit).
	ExposureUS uint32

	// BitDepth, pattern bit derinliğidir (1-8).
	BitDepth uint8

	// DarkTimeUS, pattern sonrası karanlık süredir (mikrosaniye, 24 bit).
	DarkTimeUS uint32

	// Flags, pattern seçeneklerini taşıyan bit alanıdır
	// (trigger/clear davranışı; varsayılan değer çoğu kullanım için yeterlidir).
	Flags byte

	// ImageIndex, pattern'in kaynak görüntü index'i ve bit düzlemi seçimidir.
	ImageIndex uint16
}

// ─── Hata Değerleri ─────────────────────────────────────────────────────────────

var (
	// ErrInvalidArgument, bir operasyona aralık dışı veya yanlış biçimli
	// girdi verildiğinde döner. Çağıran tarafın düzeltmesi gerekir.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidPayload, sayısal bir alanın bildirilen bit genişliğine
	// sığmadığı durumda kodlama aşamasında döner.
	ErrInvalidPayload = errors.New("invalid payload")

	// ErrMalformedReply, cihaz yanıtı beklenenden kısa veya yapısal olarak
	// bozuk olduğunda döner. Kısmi çözümleme sonucu döndürülmez.
	ErrMalformedReply = errors.New("malformed reply")

	// ErrSessionClosed, Close çağrısından sonra herhangi bir operasyon
	// denendiğinde döner.
	ErrSessionClosed = errors.New("session closed")
)

// TransportError, cihaz bağlantısındaki bir G/Ç hatasını sarar.
// Çekirdek yeniden deneme yapmaz; hata olduğu gibi çağırana iletilir ve
// yerel cihaz durumu değiştirilmez.
type TransportError struct {
	// Op, hatanın oluştuğu işlemdir ("write" veya "read").
	Op string

	// Err, alttaki G/Ç hatasıdır.
	Err error
}

// Error, error arayüzünü uygular.
func (e *TransportError) Error() string {
	return fmt.Sprintf("transport %s failed: %v", e.Op, e.Err)
}

// Unwrap, sarılan hatayı döner.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// ─── Seçenek Yapıları ───────────────────────────────────────────────────────────

// DeviceOption, Device yapılandırma seçeneklerini tanımlar.
// Functional Options pattern kullanılır.
type DeviceOption func(*deviceOptions)

type deviceOptions struct {
	debugLevel int
	logger     Logger
}

func defaultDeviceOptions() deviceOptions {
	return deviceOptions{
		debugLevel: 0,
		logger:     nil,
	}
}

// WithDebugLevel, hata ayıklama seviyesini ayarlar (0-3).
//
//   - 0: sessiz
//   - 1: gönderilen komutlar loglanır
//   - 2: ek olarak ham paketler hex dump halinde loglanır
//   - 3: gerçek cihaz bağlantısı kurulmaz; gönderimler kısa devre edilir
//     ve sabit bir yer tutucu yanıt döner (kuru çalıştırma)
func WithDebugLevel(level int) DeviceOption {
	return func(o *deviceOptions) {
		if level < 0 {
			level = 0
		}
		if level > 3 {
			level = 3
		}
		o.debugLevel = level
	}
}

// WithLogger, özel bir loglama arayüzü ayarlar.
// Varsayılan olarak loglama devre dışıdır.
func WithLogger(l Logger) DeviceOption {
	return func(o *deviceOptions) {
		o.logger = l
	}
}

// ─── Logger Arayüzü ─────────────────────────────────────────────────────────────

// Logger, kütüphanenin loglama arayüzüdür.
// stdlib log paketi veya zerolog/zap gibi kütüphanelerle uyumludur.
type Logger interface {
	// Printf, formatlanmış bir log mesajı yazar.
	Printf(format string, v ...interface{})
}
