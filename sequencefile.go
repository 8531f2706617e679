package dlpc900

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// ─── Sekans Dosyaları ───────────────────────────────────────────────────────────
//
// Pattern sekansları YAML dosyalarında saklanabilir. Dosya biçimi:
//
//	name: kalibrasyon
//	repeat: 0
//	patterns:
//	  - exposure_us: 1000000
//	    dark_time_us: 500000
//	    bit_depth: 1
//	  - exposure_us: 2000000
//	    bit_depth: 8
//	    image_index: 1
//
// Index alanları dosyadan okunmaz; yükleme sırasında sıra numarasından
// atanır. image_index verilmezse girdinin sıra numarası kullanılır.

// sequenceFile, YAML sekans dosyasının üst seviye yapısıdır.
type sequenceFile struct {
	Name     string            `yaml:"name"`
	Repeat   uint32            `yaml:"repeat"`
	Patterns []patternFileItem `yaml:"patterns"`
}

// patternFileItem, dosyadaki tek bir pattern girdisidir.
type patternFileItem struct {
	ExposureUS uint32  `yaml:"exposure_us"`
	DarkTimeUS uint32  `yaml:"dark_time_us"`
	BitDepth   uint8   `yaml:"bit_depth"`
	Flags      byte    `yaml:"flags"`
	ImageIndex *uint16 `yaml:"image_index"`
}

// LoadSequenceFile, verilen YAML dosyasından bir sekans yükler ve
// doğrular. Sekansa yeni bir GUID atanır.
//
//	seq, err := dlpc900.LoadSequenceFile("kalibrasyon.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = dev.SendSequence(seq)
func LoadSequenceFile(path string) (*PatternSequence, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file sequenceFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("could not parse sequence file %s: %w", path, err)
	}

	seq := &PatternSequence{
		GUID:        uuid.New().String(),
		Name:        file.Name,
		RepeatCount: file.Repeat,
	}
	for i, item := range file.Patterns {
		imageIndex := uint16(i)
		if item.ImageIndex != nil {
			imageIndex = *item.ImageIndex
		}
		seq.Patterns = append(seq.Patterns, PatternDef{
			Index:      uint16(i),
			ExposureUS: item.ExposureUS,
			BitDepth:   item.BitDepth,
			DarkTimeUS: item.DarkTimeUS,
			Flags:      item.Flags,
			ImageIndex: imageIndex,
		})
	}

	if err := seq.validate(); err != nil {
		return nil, fmt.Errorf("sequence file %s: %w", path, err)
	}
	return seq, nil
}

// SaveFile, sekansı YAML biçiminde verilen yola yazar.
func (s *PatternSequence) SaveFile(path string) error {
	file := sequenceFile{
		Name:   s.Name,
		Repeat: s.RepeatCount,
	}
	for _, p := range s.Patterns {
		imageIndex := p.ImageIndex
		file.Patterns = append(file.Patterns, patternFileItem{
			ExposureUS: p.ExposureUS,
			DarkTimeUS: p.DarkTimeUS,
			BitDepth:   p.BitDepth,
			Flags:      p.Flags,
			ImageIndex: &imageIndex,
		})
	}

	data, err := yaml.Marshal(&file)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
