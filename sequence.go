package dlpc900

import (
	"fmt"

	"github.com/google/uuid"
)

// ─── Pattern Sekansı ────────────────────────────────────────────────────────────
//
// PatternSequence, cihaza tek seferde gönderilecek bir pattern LUT'unu üst
// seviyede tanımlar. Tek tek DefinePattern/ConfigurePatternCount/
// ControlPattern çağırmak yerine sekans bir bütün olarak kurulup
// SendSequence ile gönderilir.
//
// Hiyerarşi: PatternSequence → PatternDef (LUT girdisi)

// PatternSequence, sıralı pattern LUT girdilerinden oluşan bir sekansı
// temsil eder.
type PatternSequence struct {
	// GUID, sekansın benzersiz kimliğidir; loglama ve sekans dosyalarında
	// izlenebilirlik için kullanılır.
	GUID string

	// Name, sekansın görünen adıdır.
	Name string

	// RepeatCount, sekansın kaç kez oynatılacağıdır (0=süresiz).
	RepeatCount uint32

	// Patterns, LUT girdilerinin sıralı listesidir.
	Patterns []PatternDef
}

// NewPatternSequence, yeni bir boş sekans oluşturur.
//
//	seq := dlpc900.NewPatternSequence("kalibrasyon")
//	seq.AddPattern(1000000, 500000, 1)
//	seq.AddPattern(2000000, 0, 8)
//	err := dev.SendSequence(seq)
func NewPatternSequence(name string) *PatternSequence {
	return &PatternSequence{
		GUID: uuid.New().String(),
		Name: name,
	}
}

// AddPattern, sekansın sonuna yeni bir pattern ekler ve eklenen girdiyi
// döner. Index ve ImageIndex sıra numarasından otomatik atanır; Flags
// varsayılan (0) kalır.
//
// Dönen işaretçi yalnızca bir sonraki Add çağrısına kadar geçerlidir;
// slice büyürken yeniden tahsis edilebilir. Girdi üzerinde yapılacak
// değişiklikler bir sonraki ekleme öncesinde tamamlanmalıdır.
func (s *PatternSequence) AddPattern(exposureUS, darkTimeUS uint32, bitDepth uint8) *PatternDef {
	idx := uint16(len(s.Patterns))
	s.Patterns = append(s.Patterns, PatternDef{
		Index:      idx,
		ExposureUS: exposureUS,
		BitDepth:   bitDepth,
		DarkTimeUS: darkTimeUS,
		ImageIndex: idx,
	})
	return &s.Patterns[len(s.Patterns)-1]
}

// AddPatternDef, tam kontrollü bir LUT girdisi ekler. Index alanı sıra
// numarasıyla değiştirilir; diğer alanlar olduğu gibi korunur. İşaretçi
// geçerliliği için AddPattern'deki nota bakınız.
func (s *PatternSequence) AddPatternDef(p PatternDef) *PatternDef {
	p.Index = uint16(len(s.Patterns))
	s.Patterns = append(s.Patterns, p)
	return &s.Patterns[len(s.Patterns)-1]
}

// validate, sekansın gönderilebilir olduğunu kontrol eder.
// Her girdi kodlama kurallarına (bit genişlikleri, bit derinliği aralığı)
// uymalıdır.
func (s *PatternSequence) validate() error {
	if len(s.Patterns) == 0 {
		return fmt.Errorf("%w: sequence has no patterns", ErrInvalidArgument)
	}
	for i, p := range s.Patterns {
		if _, err := packPatternDef(p); err != nil {
			return fmt.Errorf("pattern %d: %w", i, err)
		}
	}
	return nil
}

// ─── Sekans Gönderme ────────────────────────────────────────────────────────────

// SendSequence, bir sekansı cihaza bütün halinde gönderir.
//
// Gönderim sırası:
//  1. Çalışan sekanslayıcı durdurulur.
//  2. Her LUT girdisi sırayla tanımlanır.
//  3. Pattern sayısı ve tekrar sayısı yapılandırılır.
//  4. Sekanslayıcı başlatılır.
//
// Herhangi bir adım başarısız olursa gönderim orada bırakılır ve hata
// çağırana iletilir; kısmi gönderilmiş LUT cihazda kalabilir.
func (d *Device) SendSequence(s *PatternSequence) error {
	if err := d.ensureOpen(); err != nil {
		return err
	}
	if err := s.validate(); err != nil {
		return err
	}

	d.logf("sending sequence %q (%s): %d patterns, repeat=%d",
		s.Name, s.GUID[:8], len(s.Patterns), s.RepeatCount)

	if err := d.ControlPattern(PatternStop); err != nil {
		return err
	}
	for i, p := range s.Patterns {
		if err := d.DefinePattern(p); err != nil {
			return fmt.Errorf("define pattern %d: %w", i, err)
		}
	}
	if err := d.ConfigurePatternCount(uint16(len(s.Patterns)), s.RepeatCount); err != nil {
		return err
	}
	return d.ControlPattern(PatternStart)
}
