package domain

// CREATE TABLE dataset_krs (
//     id                   BIGINT PRIMARY KEY,
//     npm_mahasiswa        VARCHAR(20) NOT NULL,
//     kode_matakuliah      VARCHAR(20),
//     kategori_matakuliah  VARCHAR(100) NOT NULL,
//     kode_nilai           NUMERIC NOT NULL
// );

// GradeRecord is one course result of a student. Grade is already encoded
// on a numeric scale (A=4 ... E=0).
type GradeRecord struct {
	StudentID  string  `gorm:"column:npm_mahasiswa" json:"student_id"`
	CourseCode string  `gorm:"column:kode_matakuliah" json:"course_code"`
	Category   string  `gorm:"column:kategori_matakuliah" json:"category"`
	Grade      float64 `gorm:"column:kode_nilai" json:"grade"`
}

func (GradeRecord) TableName() string {
	return "dataset_krs"
}
