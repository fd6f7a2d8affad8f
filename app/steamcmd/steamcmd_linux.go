//go:build linux

package steamcmd

import (
	"archive/tar"
	"compress/gzip"
	"io"
	"log"
	"os"
	"path"
	"path/filepath"

	"github.com/SourceServerManager/srcds-agent/app/utils"
)

func ExtractArchive(file *os.File) error {

	log.Println("Extracting Steam CMD...")
	gzipStream, err := os.Open(file.Name())
	if err != nil {
		return err
	}

	gzr, err := gzip.NewReader(gzipStream)
	if err != nil {
		return err
	}

	tr := tar.NewReader(gzr)

	for {
		header, err := tr.Next()

		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if header == nil {
			continue
		}

		target := filepath.Join(SteamDir, header.Name)

		switch header.Typeflag {

		case tar.TypeDir:
			if _, err := os.Stat(target); err != nil {
				if err := os.MkdirAll(target, 0755); err != nil {
					return err
				}
			}

		case tar.TypeReg:
			utils.CreateFolder(path.Dir(target))
			f, err := os.OpenFile(target, os.O_CREATE|os.O_RDWR, os.ModePerm)
			if err != nil {
				return err
			}

			if _, err := io.Copy(f, tr); err != nil {
				f.Close()
				return err
			}

			f.Close()
		}
	}

	err = gzipStream.Close()
	utils.CheckError(err)

	err = gzr.Close()
	utils.CheckError(err)

	err = file.Close()
	utils.CheckError(err)

	err = os.Remove(file.Name())
	utils.CheckError(err)

	log.Println("Extracted Steam CMD")

	return nil
}
