package domain

// CREATE TABLE dataset_kegiatanmahasiswa (
//     id             BIGINT PRIMARY KEY,
//     npm_mahasiswa  VARCHAR(20),
//     nama_kegiatan  TEXT NOT NULL,
//     kategori       VARCHAR(50) NOT NULL
// );

type Activity struct {
	Name     string `gorm:"column:nama_kegiatan" json:"nama_kegiatan"`
	Category string `gorm:"column:kategori" json:"kategori"`
}

// ActivityRecord is a row of the activity dataset: an activity a student took part in.
type ActivityRecord struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	StudentID string `gorm:"column:npm_mahasiswa" json:"npm_mahasiswa"`
	Name      string `gorm:"column:nama_kegiatan" json:"nama_kegiatan"`
	Category  string `gorm:"column:kategori" json:"kategori"`
}

func (ActivityRecord) TableName() string {
	return "dataset_kegiatanmahasiswa"
}
