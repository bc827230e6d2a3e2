package dumpgen

import (
	"time"

	"github.com/oseko/dumpfile/internal/directory"
	"github.com/oseko/dumpfile/internal/rowcodec"
)

// Scott returns a builder pre-loaded with the classic demo schema
// (DEPT, EMP, SALGRADE plus two index objects), the shared end-to-end
// fixture for decoder tests.
func Scott() *Builder {
	b := NewBuilder()

	b.Add(Object{
		Name:       "DEPT",
		Kind:       directory.KindTable,
		Definition: "CREATE TABLE DEPT (DEPTNO NUMBER(2), DNAME VARCHAR2(14), LOC VARCHAR2(13))",
		Columns:    DeptColumns(),
		Rows: [][]any{
			{10, "ACCOUNTING", "NEW YORK"},
			{20, "RESEARCH", "DALLAS"},
			{30, "SALES", "CHICAGO"},
			{40, "OPERATIONS", "BOSTON"},
		},
	})

	b.Add(Object{
		Name:       "EMP",
		Kind:       directory.KindTable,
		Definition: "CREATE TABLE EMP (EMPNO NUMBER(4), ENAME VARCHAR2(10), JOB VARCHAR2(9), MGR NUMBER(4), HIREDATE DATE, SAL NUMBER(7,2), COMM NUMBER(7,2), DEPTNO NUMBER(2))",
		Columns:    EmpColumns(),
		Rows: [][]any{
			{7369, "SMITH", "CLERK", 7902, date(1980, 12, 17), 800, nil, 20},
			{7499, "ALLEN", "SALESMAN", 7698, date(1981, 2, 20), 1600, 300, 30},
			{7521, "WARD", "SALESMAN", 7698, date(1981, 2, 22), 1250, 500, 30},
			{7566, "JONES", "MANAGER", 7839, date(1981, 4, 2), 2975, nil, 20},
			{7654, "MARTIN", "SALESMAN", 7698, date(1981, 9, 28), 1250, 1400, 30},
			{7698, "BLAKE", "MANAGER", 7839, date(1981, 5, 1), 2850, nil, 30},
			{7782, "CLARK", "MANAGER", 7839, date(1981, 6, 9), 2450, nil, 10},
			{7788, "SCOTT", "ANALYST", 7566, date(1987, 4, 19), 3000, nil, 20},
			{7839, "KING", "PRESIDENT", nil, date(1981, 11, 17), 5000, nil, 10},
			{7844, "TURNER", "SALESMAN", 7698, date(1981, 9, 8), 1500, 0, 30},
			{7876, "ADAMS", "CLERK", 7788, date(1987, 5, 23), 1100, nil, 20},
			{7900, "JAMES", "CLERK", 7698, date(1981, 12, 3), 950, nil, 30},
			{7902, "FORD", "ANALYST", 7566, date(1981, 12, 3), 3000, nil, 20},
			{7934, "MILLER", "CLERK", 7782, date(1982, 1, 23), 1300, nil, 10},
		},
	})

	b.Add(Object{
		Name:       "SALGRADE",
		Kind:       directory.KindTable,
		Definition: "CREATE TABLE SALGRADE (GRADE NUMBER, LOSAL NUMBER, HISAL NUMBER)",
		Columns:    SalgradeColumns(),
		Rows: [][]any{
			{1, 700, 1200},
			{2, 1201, 1400},
			{3, 1401, 2000},
			{4, 2001, 3000},
			{5, 3001, 9999},
		},
	})

	b.Add(Object{
		Name:       "PK_DEPT",
		Kind:       directory.KindIndex,
		Definition: "CREATE UNIQUE INDEX PK_DEPT ON DEPT (DEPTNO)",
	})
	b.Add(Object{
		Name:       "PK_EMP",
		Kind:       directory.KindIndex,
		Definition: "CREATE UNIQUE INDEX PK_EMP ON EMP (EMPNO)",
	})

	return b
}

// DeptColumns returns the DEPT schema.
func DeptColumns() []rowcodec.Column {
	return []rowcodec.Column{
		{Name: "DEPTNO", Type: rowcodec.TypeNumber, Precision: 2, Scale: 0, Ordinal: 0},
		{Name: "DNAME", Type: rowcodec.TypeVarchar, Length: 14, Nullable: true, Ordinal: 1,
			Precision: rowcodec.PrecisionUnspecified, Scale: rowcodec.ScaleUnspecified},
		{Name: "LOC", Type: rowcodec.TypeVarchar, Length: 13, Nullable: true, Ordinal: 2,
			Precision: rowcodec.PrecisionUnspecified, Scale: rowcodec.ScaleUnspecified},
	}
}

// EmpColumns returns the EMP schema.
func EmpColumns() []rowcodec.Column {
	text := func(name string, length uint32, ordinal int) rowcodec.Column {
		return rowcodec.Column{Name: name, Type: rowcodec.TypeVarchar, Length: length, Nullable: true,
			Ordinal: ordinal, Precision: rowcodec.PrecisionUnspecified, Scale: rowcodec.ScaleUnspecified}
	}
	return []rowcodec.Column{
		{Name: "EMPNO", Type: rowcodec.TypeNumber, Precision: 4, Scale: 0, Ordinal: 0},
		text("ENAME", 10, 1),
		text("JOB", 9, 2),
		{Name: "MGR", Type: rowcodec.TypeNumber, Precision: 4, Scale: 0, Nullable: true, Ordinal: 3},
		{Name: "HIREDATE", Type: rowcodec.TypeDate, Nullable: true, Ordinal: 4,
			Precision: rowcodec.PrecisionUnspecified, Scale: rowcodec.ScaleUnspecified},
		{Name: "SAL", Type: rowcodec.TypeNumber, Precision: 7, Scale: 2, Nullable: true, Ordinal: 5},
		{Name: "COMM", Type: rowcodec.TypeNumber, Precision: 7, Scale: 2, Nullable: true, Ordinal: 6},
		{Name: "DEPTNO", Type: rowcodec.TypeNumber, Precision: 2, Scale: 0, Nullable: true, Ordinal: 7},
	}
}

// SalgradeColumns returns the SALGRADE schema.
func SalgradeColumns() []rowcodec.Column {
	num := func(name string, ordinal int) rowcodec.Column {
		return rowcodec.Column{Name: name, Type: rowcodec.TypeNumber, Ordinal: ordinal,
			Precision: rowcodec.PrecisionUnspecified, Scale: rowcodec.ScaleUnspecified}
	}
	return []rowcodec.Column{num("GRADE", 0), num("LOSAL", 1), num("HISAL", 2)}
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
