// Package audio lee archivos DCA: frames Opus precodificados, cada uno
// precedido por su largo como int16 little endian. Se mandan tal cual a
// VoiceConnection.OpusSend, sin transcodificar.
//
// Para generar un .dca: dca-rs --raw -i clip.wav > clip.dca
package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// maxFrameSize acota frames corruptos; un frame Opus de 20ms nunca pasa de esto.
const maxFrameSize = 4000

var ErrBadFrame = errors.New("dca: invalid frame length")

type Decoder struct {
	r io.Reader
}

func NewDecoder(r io.Reader) *Decoder { return &Decoder{r: r} }

// Next devuelve el siguiente frame Opus, o io.EOF al terminar el archivo.
func (d *Decoder) Next() ([]byte, error) {
	var n int16
	err := binary.Read(d.r, binary.LittleEndian, &n)
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return nil, io.EOF
	}
	if err != nil {
		return nil, fmt.Errorf("dca: read length: %w", err)
	}
	if n <= 0 || n > maxFrameSize {
		return nil, fmt.Errorf("%w: %d", ErrBadFrame, n)
	}

	frame := make([]byte, n)
	if _, err := io.ReadFull(d.r, frame); err != nil {
		// a mitad de frame no es un EOF limpio
		return nil, fmt.Errorf("dca: read frame: %w", err)
	}
	return frame, nil
}

// Encode escribe frames en formato DCA.
func Encode(w io.Writer, frames [][]byte) error {
	for _, f := range frames {
		if len(f) == 0 || len(f) > maxFrameSize {
			return fmt.Errorf("%w: %d", ErrBadFrame, len(f))
		}
		if err := binary.Write(w, binary.LittleEndian, int16(len(f))); err != nil {
			return err
		}
		if _, err := w.Write(f); err != nil {
			return err
		}
	}
	return nil
}
