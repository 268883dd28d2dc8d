package video

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"io"
	"os/exec"
	"strings"

	"github.com/ivlev/framescroll/internal/config"
)

type VideoEncoder interface {
	// EncodeStream consumes frames until the channel closes and writes the
	// video to videoPath. Every frame must be params.Width x params.Height.
	EncodeStream(ctx context.Context, frames <-chan *image.RGBA, videoPath string, params config.StreamParams) error
}

type FFmpegEncoder struct{}

func (e *FFmpegEncoder) EncodeStream(
	ctx context.Context,
	frames <-chan *image.RGBA,
	videoPath string,
	params config.StreamParams,
) error {
	args := BuildFFmpegArgs(videoPath, params)

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("stdin pipe error: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("ffmpeg start error: %w", err)
	}

	// Запись raw RGBA данных
	var writeErr error
	for img := range frames {
		if writeErr != nil {
			continue // drain so the producer can finish
		}
		if b := img.Bounds(); b.Dx() != params.Width || b.Dy() != params.Height {
			writeErr = fmt.Errorf("кадр %dx%d не совпадает с потоком %dx%d", b.Dx(), b.Dy(), params.Width, params.Height)
			continue
		}
		if err := writeRawRGBA(stdin, img); err != nil {
			writeErr = fmt.Errorf("write raw error: %w", err)
		}
	}
	stdin.Close()

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("ffmpeg wait error: %w, output: %s", err, tail(out.String(), 2000))
	}
	return writeErr
}

// BuildFFmpegArgs builds the command line for a raw RGBA stream on stdin.
func BuildFFmpegArgs(videoPath string, params config.StreamParams) []string {
	args := []string{
		"-y",
		"-f", "rawvideo",
		"-pixel_format", "rgba",
		"-video_size", fmt.Sprintf("%dx%d", params.Width, params.Height),
		"-framerate", fmt.Sprintf("%d", params.FPS),
		"-i", "-",
	}
	if params.AudioPath != "" {
		args = append(args, "-i", params.AudioPath)
	}

	if filter := FadeFilter(params.Duration, params.FadeDuration); filter != "" {
		args = append(args, "-vf", filter)
	}
	if params.AudioPath != "" {
		args = append(args, "-map", "0:v", "-map", "1:a", "-c:a", "aac", "-shortest")
		if params.FadeDuration > 0 && params.Duration > params.FadeDuration {
			args = append(args, "-af", fmt.Sprintf("afade=t=out:st=%f:d=%f", params.Duration-params.FadeDuration, params.FadeDuration))
		}
	}

	args = append(args, "-pix_fmt", "yuv420p", "-c:v", params.VideoEncoder)
	args = append(args, QualityArgs(params.VideoEncoder, params.Quality)...)
	args = append(args, videoPath)
	return args
}

// FadeFilter fades the stream in from and out to black. Empty when fade is 0.
func FadeFilter(duration, fade float64) string {
	if fade <= 0 || duration <= 0 {
		return ""
	}
	return fmt.Sprintf("fade=t=in:st=0:d=%f,fade=t=out:st=%f:d=%f", fade, duration-fade, fade)
}

// QualityArgs maps quality to the encoder's own rate control.
func QualityArgs(encoderName string, quality int) []string {
	switch encoderName {
	case "h264_videotoolbox":
		// VideoToolbox часто не поддерживает -q:v напрямую. Используем битрейт.
		bitrate := quality * 100 // кбит/с. 75 -> 7.5Мбит/с
		return []string{"-b:v", fmt.Sprintf("%dk", bitrate)}
	case "h264_nvenc":
		return []string{"-cq", fmt.Sprintf("%d", quality)}
	default: // libx264
		return []string{"-crf", fmt.Sprintf("%d", quality), "-preset", "medium"}
	}
}

func writeRawRGBA(w io.Writer, img *image.RGBA) error {
	bounds := img.Bounds()
	if img.Stride != bounds.Dx()*4 || img.Rect.Min.X != 0 || img.Rect.Min.Y != 0 {
		packed := image.NewRGBA(image.Rectangle{Max: bounds.Size()})
		draw.Draw(packed, packed.Bounds(), img, bounds.Min, draw.Src)
		img = packed
	}
	_, err := w.Write(img.Pix)
	return err
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	s = s[len(s)-n:]
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	return s
}
