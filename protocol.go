package dlpc900

import (
	"encoding/binary"
	"fmt"
)

// ─── Komut Kodlama ──────────────────────────────────────────────────────────────
//
// Bu dosya, DLPC900 USB komut protokolü için düşük seviyeli kodlama ve
// çözümleme fonksiyonlarını içerir. Tüm çok byte'lı sayısal alanlar
// little-endian byte sıralaması kullanır.
//
// Komut Genel Formatı:
//   [1B] flag     = bit 7: read(1)/write(0), bit 6: yanıt isteniyor
//   [1B] sequence = 1..255 arasında dönen sekans numarası
//   [2B] length   = payload uzunluğu + 2 (alt adres çifti dahil, LE)
//   [2B] alt adres (alt byte önce)
//   [NB] payload

// encodeCommand, bir komut tuple'ını cihazın beklediği byte dizilimine
// dönüştürür. Girdilerinin deterministik ve saf bir fonksiyonudur; sekans
// numarası çağıran tarafından (allocator) atanmış olmalıdır.
func encodeCommand(addr SubAddress, mode CommandMode, reply bool, seq byte, payload []byte) []byte {
	buf := make([]byte, commandHeaderLength+len(payload))

	var flag byte
	if mode == ModeRead {
		flag |= flagRead
	}
	if reply {
		flag |= flagReply
	}

	buf[0] = flag
	buf[1] = seq
	binary.LittleEndian.PutUint16(buf[2:4], uint16(len(payload)+2))
	buf[4] = addr[1] // alt byte (CMD1) önce gönderilir
	buf[5] = addr[0]
	copy(buf[commandHeaderLength:], payload)

	return buf
}

// splitPackets, kodlanmış komut akışını packetSize boyutunda ardışık
// parçalara böler. Son parça, akış uzunluğu packetSize'ın katı değilse
// kalan byte'ları taşır (daha kısa olabilir).
//
// Örnek: 130 byte'lık bir akış, 64 byte'lık paket boyutuyla 3 yazma
// işlemi üretir: 64, 64 ve 2 byte.
func splitPackets(stream []byte, packetSize int) [][]byte {
	if len(stream) == 0 || packetSize <= 0 {
		return nil
	}

	var packets [][]byte
	for offset := 0; offset < len(stream); offset += packetSize {
		end := offset + packetSize
		if end > len(stream) {
			end = len(stream)
		}
		packets = append(packets, stream[offset:end])
	}
	return packets
}

// ─── Payload Paketleme ──────────────────────────────────────────────────────────

// packPatternDef, bir pattern LUT kaydını 12 byte'lık sabit dizilime
// paketler. Sayısal alanlar bildirilen bit genişliğine sığmazsa
// ErrInvalidPayload döner.
func packPatternDef(p PatternDef) ([]byte, error) {
	if p.ExposureUS > maxExposure {
		return nil, fmt.Errorf("%w: exposure %d exceeds 24 bits", ErrInvalidPayload, p.ExposureUS)
	}
	if p.DarkTimeUS > maxExposure {
		return nil, fmt.Errorf("%w: dark time %d exceeds 24 bits", ErrInvalidPayload, p.DarkTimeUS)
	}
	if p.BitDepth < 1 || p.BitDepth > 8 {
		return nil, fmt.Errorf("%w: bit depth %d out of range 1-8", ErrInvalidPayload, p.BitDepth)
	}

	buf := make([]byte, patternRecordLength)
	binary.LittleEndian.PutUint16(buf[0:2], p.Index)
	putUint24(buf[2:5], p.ExposureUS)
	buf[5] = p.BitDepth
	putUint24(buf[6:9], p.DarkTimeUS)
	buf[9] = p.Flags
	binary.LittleEndian.PutUint16(buf[10:12], p.ImageIndex)
	return buf, nil
}

// packPatternConfig, pattern sayısı (16 bit) ve tekrar sayısını (32 bit)
// 6 byte'lık yapılandırma kaydına paketler.
func packPatternConfig(count uint16, repeat uint32) []byte {
	buf := make([]byte, 6)
	binary.LittleEndian.PutUint16(buf[0:2], count)
	binary.LittleEndian.PutUint32(buf[2:6], repeat)
	return buf
}

// putUint24, v'nin düşük 3 byte'ını little-endian olarak yazar.
// Aralık kontrolü çağıranın sorumluluğundadır.
func putUint24(buf []byte, v uint32) {
	buf[0] = byte(v)
	buf[1] = byte(v >> 8)
	buf[2] = byte(v >> 16)
}

// ─── Yanıt Çözümleme ────────────────────────────────────────────────────────────
//
// Yanıt Genel Formatı:
//   [1B] flag
//   [1B] sequence
//   [2B] length (LE)
//   [NB] veri (4. byte'tan itibaren)

// decodeFirmwareVersion, firmware versiyon yanıtını çözümler.
//
// Veri dizilimi (yanıt başından itibaren sabit offset'ler):
//
//	[4-5]   uygulama patch (2B LE)
//	[6]     uygulama minor
//	[7]     uygulama major
//	[8-9]   API patch (2B LE)
//	[10]    API minor
//	[11]    API major
//
// Product ve Manufacturer alanları transport katmanından doldurulur;
// bu fonksiyon yalnızca versiyon alanlarını çözer.
func decodeFirmwareVersion(reply []byte) (FirmwareInfo, error) {
	if len(reply) < replyHeaderLength+8 {
		return FirmwareInfo{}, fmt.Errorf("%w: firmware reply %d bytes, need %d",
			ErrMalformedReply, len(reply), replyHeaderLength+8)
	}

	return FirmwareInfo{
		App: Version{
			Patch: binary.LittleEndian.Uint16(reply[4:6]),
			Minor: reply[6],
			Major: reply[7],
		},
		API: Version{
			Patch: binary.LittleEndian.Uint16(reply[8:10]),
			Minor: reply[10],
			Major: reply[11],
		},
	}, nil
}

// decodeHardwareStatus, donanım durum yanıtından durum byte'ını çıkarır.
// Byte genellikle ikilik gösterimiyle görüntülenir; yorumlama çağırana
// bırakılır.
func decodeHardwareStatus(reply []byte) (byte, error) {
	if len(reply) < replyHeaderLength+1 {
		return 0, fmt.Errorf("%w: hardware status reply %d bytes, need %d",
			ErrMalformedReply, len(reply), replyHeaderLength+1)
	}
	return reply[replyHeaderLength], nil
}

// decodeMainStatus, ana durum yanıtını çözümler. Durum byte'ının düşük
// 6 bit'i (bit 0'dan başlayarak) mainStatusLabels'taki açıklama çiftleri
// arasından seçim yapar; kullanılmayan yüksek bitler yok sayılır.
func decodeMainStatus(reply []byte) (StatusSnapshot, error) {
	if len(reply) < replyHeaderLength+1 {
		return StatusSnapshot{}, fmt.Errorf("%w: main status reply %d bytes, need %d",
			ErrMalformedReply, len(reply), replyHeaderLength+1)
	}

	raw := reply[replyHeaderLength]
	snap := StatusSnapshot{Raw: raw}
	for i := range mainStatusLabels {
		set := raw&(1<<uint(i)) != 0
		idx := 0
		if set {
			idx = 1
		}
		snap.Flags[i] = StatusFlag{
			Name: mainStatusLabels[i].name,
			Set:  set,
			Text: mainStatusLabels[i].text[idx],
		}
	}
	return snap, nil
}
