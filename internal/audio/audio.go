//
// lightweight inspection of uploaded recordings. the service only
// needs enough signal ahead of transcription to reject obviously
// unusable audio, so this reads PCM WAV headers directly instead
// of pulling in a decoding stack.
//
package audio

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
)

const (
	// recordings shorter than this cannot hold a scored attempt
	minDurationSeconds = 1.0
	// peak amplitude below 1% of full scale reads as silence
	minPeakLevel = 0.01
)

//
// Info summarises a PCM WAV recording.
//
type Info struct {
	SampleRate      int
	Channels        int
	DurationSeconds float64
	// loudest sample, normalized to [0,1]
	PeakLevel float64
}

//
// Inspect returns the list of validation problems for the
// recording at path. an empty list means the audio is usable.
// the messages feed directly into the assessment's accumulated
// validation result.
//
func Inspect(path string) []string {

	info, err := ReadInfo(path)
	if err != nil {
		return []string{fmt.Sprintf("Cannot read audio file: %s", err)}
	}

	var problems []string
	if info.DurationSeconds < minDurationSeconds {
		problems = append(problems, "Audio file too short")
	}
	if info.PeakLevel < minPeakLevel {
		problems = append(problems, "Audio level too low")
	}

	return problems
}

//
// ReadInfo parses the RIFF/WAVE structure at path and scans the
// sample data for the peak level. only uncompressed 16-bit PCM is
// supported, which is what the recording front-end produces.
//
func ReadInfo(path string) (Info, error) {

	f, err := os.Open(path)
	if err != nil {
		return Info{}, err
	}
	defer f.Close()

	var riff [12]byte
	if _, err := io.ReadFull(f, riff[:]); err != nil {
		return Info{}, errors.Wrap(err, "riff header")
	}
	if string(riff[0:4]) != "RIFF" || string(riff[8:12]) != "WAVE" {
		return Info{}, errors.New("not a RIFF/WAVE file")
	}

	var (
		info     Info
		bitDepth int
		haveFmt  bool
	)

	// walk the chunk list; fmt must precede data
	for {
		var header [8]byte
		if _, err := io.ReadFull(f, header[:]); err != nil {
			if err == io.EOF {
				break
			}
			return Info{}, errors.Wrap(err, "chunk header")
		}
		chunkID := string(header[0:4])
		chunkLen := int64(binary.LittleEndian.Uint32(header[4:8]))

		switch chunkID {
		case "fmt ":
			var fmtChunk [16]byte
			if _, err := io.ReadFull(f, fmtChunk[:]); err != nil {
				return Info{}, errors.Wrap(err, "fmt chunk")
			}
			if format := binary.LittleEndian.Uint16(fmtChunk[0:2]); format != 1 {
				return Info{}, errors.Errorf("unsupported audio format %d (want PCM)", format)
			}
			info.Channels = int(binary.LittleEndian.Uint16(fmtChunk[2:4]))
			info.SampleRate = int(binary.LittleEndian.Uint32(fmtChunk[4:8]))
			bitDepth = int(binary.LittleEndian.Uint16(fmtChunk[14:16]))
			if bitDepth != 16 {
				return Info{}, errors.Errorf("unsupported bit depth %d (want 16)", bitDepth)
			}
			if info.Channels < 1 || info.SampleRate <= 0 {
				return Info{}, errors.New("malformed fmt chunk")
			}
			haveFmt = true
			if rest := chunkLen - 16; rest > 0 {
				if _, err := f.Seek(rest, io.SeekCurrent); err != nil {
					return Info{}, errors.Wrap(err, "skip fmt extension")
				}
			}

		case "data":
			if !haveFmt {
				return Info{}, errors.New("data chunk before fmt chunk")
			}
			peak, sampleCount, err := scanPeak(io.LimitReader(f, chunkLen))
			if err != nil {
				return Info{}, errors.Wrap(err, "scan samples")
			}
			info.PeakLevel = peak
			frames := sampleCount / info.Channels
			info.DurationSeconds = float64(frames) / float64(info.SampleRate)
			return info, nil

		default:
			if _, err := f.Seek(chunkLen, io.SeekCurrent); err != nil {
				return Info{}, errors.Wrapf(err, "skip %q chunk", chunkID)
			}
		}
	}

	return Info{}, errors.New("no data chunk found")
}

// scanPeak reads 16-bit little-endian samples and returns the
// normalized peak plus the number of samples seen.
func scanPeak(r io.Reader) (float64, int, error) {

	buf := make([]byte, 8192)
	var (
		peak  int32
		count int
		carry []byte
	)

	for {
		n, err := r.Read(buf)
		if n > 0 {
			data := buf[:n]
			if len(carry) > 0 {
				data = append(carry, data...)
				carry = nil
			}
			if len(data)%2 != 0 {
				carry = []byte{data[len(data)-1]}
				data = data[:len(data)-1]
			}
			for i := 0; i+2 <= len(data); i += 2 {
				s := int32(int16(binary.LittleEndian.Uint16(data[i : i+2])))
				if s < 0 {
					s = -s
				}
				if s > peak {
					peak = s
				}
				count++
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, 0, err
		}
	}

	return float64(peak) / 32768.0, count, nil
}
