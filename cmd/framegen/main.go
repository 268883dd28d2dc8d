package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/ivlev/framescroll/internal/scene"
	"github.com/ivlev/framescroll/internal/sequence"
)

func main() {
	outPtr := flag.String("out", "sequence", "Каталог для кадров")
	countPtr := flag.Int("count", 120, "Количество кадров")
	widthPtr := flag.Int("width", 1280, "Ширина")
	heightPtr := flag.Int("height", 720, "Высота")
	prefixPtr := flag.String("prefix", "ezgif-frame", "Префикс имени кадра")
	extPtr := flag.String("ext", "jpg", "Формат: jpg, png, bmp, tiff")
	padPtr := flag.Int("pad", 3, "Ширина номера кадра")
	workersPtr := flag.Int("workers", runtime.NumCPU(), "Потоки")
	labelPtr := flag.Bool("label", true, "Печатать номер кадра")
	scenePtr := flag.String("scene", "", "Записать сцену, указывающую на кадры")
	flag.Parse()

	tpl := sequence.Template{Dir: *outPtr, Prefix: *prefixPtr, Ext: *extPtr, Pad: *padPtr}
	seq, err := sequence.New(tpl, *countPtr)
	if err != nil {
		log.Fatalf("[-] Ошибка шаблона: %v", err)
	}

	gen := &Generator{Width: *widthPtr, Height: *heightPtr, Workers: *workersPtr, Label: *labelPtr}
	fmt.Printf("[*] Кадры: %s | %d шт. | %dx%d\n", *outPtr, seq.Len(), gen.Width, gen.Height)

	start := time.Now()
	var done atomic.Int64
	step := int64(max(seq.Len()/10, 1))
	err = gen.Write(context.Background(), seq, func(int) {
		if n := done.Add(1); n%step == 0 || n == int64(seq.Len()) {
			fmt.Printf("[>] Готово: %d/%d\n", n, seq.Len())
		}
	})
	if err != nil {
		log.Fatalf("[-] Ошибка генерации: %v", err)
	}

	if *scenePtr != "" {
		sc := scene.Default()
		sc.Sequence.Location = *outPtr
		sc.Sequence.Prefix = *prefixPtr
		sc.Sequence.Ext = *extPtr
		sc.Sequence.Pad = *padPtr
		sc.Sequence.Count = seq.Len()
		if sc.Loader.MinReady > seq.Len() {
			sc.Loader.MinReady = seq.Len()
		}
		if err := scene.WriteScene(sc, *scenePtr); err != nil {
			log.Fatalf("[-] Ошибка записи сцены: %v", err)
		}
		fmt.Printf("[*] Сцена: %s\n", *scenePtr)
	}

	fmt.Printf("[+++] Готово за %v\n", time.Since(start).Round(time.Millisecond))
}
